package config

import (
	"io"

	"github.com/BurntSushi/toml"

	"gitlab.com/parlabs/workpool-go/pkg/work"
)

type tomlParamsLoader struct{}

// LoadParams parses a TOML representation of Params. Unlike the JSON
// loader it accepts partial files, overlaying only the keys present onto
// whatever params already holds; unknown keys are still rejected.
func (l tomlParamsLoader) LoadParams(reader io.Reader, params *Params) error {
	if params == nil {
		return work.NewConfigError("params parameter is nil")
	}
	md, err := toml.NewDecoder(reader).Decode(params)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return work.NewConfigError("unknown parameter " + undecoded[0].String())
	}
	return nil
}

func (l tomlParamsLoader) StoreParams(writer io.Writer, params *Params) error {
	return toml.NewEncoder(writer).Encode(*params)
}

// NewTOMLParamsLoader returns a ParamsLoader for the TOML format.
func NewTOMLParamsLoader() ParamsLoader {
	return tomlParamsLoader{}
}

// NewTOMLParamsWriter returns a ParamsWriter for the TOML format.
func NewTOMLParamsWriter() ParamsWriter {
	return tomlParamsLoader{}
}
