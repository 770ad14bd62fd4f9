package grpc_transport

import (
	"google.golang.org/grpc/encoding"

	"gitlab.com/pietroski-software-company/golang/devex/serializer"
	serializermodels "gitlab.com/pietroski-software-company/golang/devex/serializer/models"
)

// CodecName is the content subtype both ends of the engine service use.
const CodecName = "msgpack"

type codec struct {
	serializer serializermodels.Serializer
}

func init() {
	encoding.RegisterCodec(&codec{serializer: serializer.NewMsgPackSerializer()})
}

func (c *codec) Marshal(v any) ([]byte, error) {
	return c.serializer.Serialize(v)
}

func (c *codec) Unmarshal(data []byte, v any) error {
	return c.serializer.Deserialize(data, v)
}

func (c *codec) Name() string {
	return CodecName
}
