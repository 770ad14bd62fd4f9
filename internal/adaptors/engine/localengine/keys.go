package localengine

import (
	"bytes"

	"gitlab.com/pietroski-software-company/golang/devex/errorsx"

	"gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/errs"
	record_models "gitlab.com/pietroski-software-company/lightning-db-driver/pkg/models/record"
)

const sep = byte(0)

var (
	recordKeyspace = []byte("r")
	indexKeyspace  = []byte("i")
)

type (
	// storedRecord is the value persisted for every record.
	storedRecord struct {
		UserKey    any                  `msgpack:"k"`
		Bins       record_models.BinMap `msgpack:"b"`
		Generation uint32               `msgpack:"g"`
	}

	// storedIndex is the value persisted for every secondary index.
	storedIndex struct {
		Namespace string `msgpack:"ns"`
		Set       string `msgpack:"set"`
		Bin       string `msgpack:"bin"`
		Name      string `msgpack:"name"`
		Type      int    `msgpack:"type"`
	}
)

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, []byte{sep})
}

func namespacePrefix(namespace string) []byte {
	return append(join(recordKeyspace, []byte(namespace)), sep)
}

func setPrefix(namespace, set string) []byte {
	return append(join(recordKeyspace, []byte(namespace), []byte(set)), sep)
}

// scanPrefix returns the prefix iterated by a scan; an empty set covers
// the whole namespace.
func scanPrefix(namespace, set string) []byte {
	if set == "" {
		return namespacePrefix(namespace)
	}

	return setPrefix(namespace, set)
}

func (e *LocalEngine) recordKey(key *record_models.Key) ([]byte, error) {
	if key == nil || key.Namespace == "" || key.UserKey == nil {
		return nil, errorsx.Wrapf(errs.ErrInvalidKey, "%v", key)
	}

	userKey, err := e.serializer.Serialize(normalize(key.UserKey))
	if err != nil {
		return nil, errorsx.Wrap(errs.ErrInvalidKey, err.Error())
	}

	return append(setPrefix(key.Namespace, key.Set), userKey...), nil
}

// setFromKey recovers the set name out of a stored record key.
func setFromKey(namespace string, rawKey []byte) string {
	rest := rawKey[len(namespacePrefix(namespace)):]
	if idx := bytes.IndexByte(rest, sep); idx >= 0 {
		return string(rest[:idx])
	}

	return ""
}

func indexKey(name string) []byte {
	return join(indexKeyspace, []byte(name))
}
