package config

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"

	"gitlab.com/parlabs/workpool-go/pkg/work"
)

// ParamsLoader is an abstraction for parsing parameters from a given io.Reader instance.
type ParamsLoader interface {
	// LoadParams parses an instance of the Params type using a given instance of io.Reader.
	LoadParams(io.Reader, *Params) error
}

// ParamsWriter is an abstraction for storing parameters using a given instance of io.Writer.
type ParamsWriter interface {
	// StoreParams outputs a representation of the Params using the provided io.Writer.
	StoreParams(io.Writer, *Params) error
}

type jsonParamsLoader struct{}

func (l jsonParamsLoader) LoadParams(reader io.Reader, params *Params) error {
	if params == nil {
		return work.NewConfigError("params parameter is nil")
	}

	var buffer bytes.Buffer
	decoder := json.NewDecoder(io.TeeReader(reader, &buffer))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&params)
	if err != nil {
		return err
	}
	// check if the provided JSON representation has the same number of fields as the Params type
	var parsedJSON map[string]interface{}
	err = json.NewDecoder(&buffer).Decode(&parsedJSON)
	if err != nil {
		return err
	}
	if reflect.Indirect(reflect.ValueOf(params)).NumField() != len(parsedJSON) {
		return work.NewConfigError("provided parameters have an incorrect number of fields")
	}
	return nil
}

func (l jsonParamsLoader) StoreParams(writer io.Writer, params *Params) error {
	return json.NewEncoder(writer).Encode(*params)
}

// NewJSONParamsLoader returns a new instance of the ParamsLoader type that expects that the
// provided parameters are stored using the JSON format.
func NewJSONParamsLoader() ParamsLoader {
	return jsonParamsLoader{}
}

// NewJSONParamsWriter returns a new instance of the ParamsWriter type that stores the
// parameters using the JSON format.
func NewJSONParamsWriter() ParamsWriter {
	return jsonParamsLoader{}
}
