package agent

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "agent")

// Type represents a specific type of an agent Config.
// Config's with this type can create Agents of the corresponding type.
//
// For example, if a Config has Type EGreedySarsaTabular, then the
// Config is used to construct Sarsa agents using epsilon-greedy
// policies over a table of action values.
type Type string

const (
	EGreedyMonteCarloTabular  Type = "EGreedyMonteCarlo-Tabular"
	EGreedySarsaTabular       Type = "EGreedySarsa-Tabular"
	EGreedySarsaLambdaTabular Type = "EGreedySarsaLambda-Tabular"
	EGreedyQLearningTabular   Type = "EGreedyQLearning-Tabular"
)

// Registered types with the package. Once a Type has been registered
// with this map, a Config or ConfigList with that type can be created.
//
// No Type's are registered wtih this package upon initialization.
// Each separate package is in charge of registering its Type with
// the package separately to avoid circular imports.
var registeredTypes map[Type]reflect.Type

func init() {
	registeredTypes = make(map[Type]reflect.Type)
}

// Register registers an agent's Type with a concrete ConfigList type
// so that upon deserialization of a TypedConfigList, ConfigLists of
// type agentType are deserialized into the concrete type of configs.
//
// Note that each package is required to register its own Config's
// with an agentType separately. This package registers no agentTypes
// with any Config's. This is to avoid circular imports.
func Register(agentType Type, configs ConfigList) {
	log.WithField("type", agentType).Debug("registering agent type")
	registeredTypes[agentType] = reflect.TypeOf(configs)
}

// Registered returns whether an agent Type has been registered
func Registered(agentType Type) bool {
	_, ok := registeredTypes[agentType]
	return ok
}
