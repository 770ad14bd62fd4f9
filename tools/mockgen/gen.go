package mock_generator

import _ "go.uber.org/mock/mockgen/model"

// engine
//go:generate mockgen -package mocks -destination ../../pkg/engine/mocks/engine.go gitlab.com/pietroski-software-company/lightning-db-driver/pkg/engine Engine,ExecutionRequest
