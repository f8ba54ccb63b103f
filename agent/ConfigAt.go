package agent

import (
	"fmt"
	"reflect"
)

// ConfigAt returns the Config at index i in a ConfigList. Configs are
// enumerated by the cartesian product of the field values of the list,
// with the last field varying fastest. Each field of the ConfigList
// must be a slice whose element type matches the Config field of the
// same name.
//
// ConfigAt wraps around: ConfigAt(i, c) == ConfigAt(i % c.Len(), c).
func ConfigAt(i int, c ConfigList) Config {
	if c.Len() == 0 {
		panic("configAt: empty config list")
	}
	i %= c.Len()

	list := reflect.ValueOf(c)
	config := reflect.New(reflect.TypeOf(c.Config())).Elem()

	for field := list.NumField() - 1; field >= 0; field-- {
		values := list.Field(field)
		name := list.Type().Field(field).Name
		if values.Kind() != reflect.Slice {
			panic(fmt.Sprintf("configAt: field %v is not a slice", name))
		}

		target := config.FieldByName(name)
		if !target.IsValid() {
			panic(fmt.Sprintf("configAt: config has no field %v", name))
		}

		n := values.Len()
		target.Set(values.Index(i % n))
		i /= n
	}

	return config.Interface().(Config)
}

// Configs returns every Config in a ConfigList
func Configs(c ConfigList) []Config {
	configs := make([]Config, c.Len())
	for i := range configs {
		configs[i] = ConfigAt(i, c)
	}
	return configs
}
