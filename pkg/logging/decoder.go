package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type decoder struct {
	writer io.Writer
}

// NewDecoder creates an io.Writer that takes single JSON log events and
// writes them to the given writer in human readable form, expanding the
// short event and field names back to full words.
func NewDecoder(writer io.Writer) io.Writer {
	return &decoder{writer: writer}
}

func (d *decoder) Write(p []byte) (int, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(p, &data); err != nil {
		return 0, err
	}
	if _, err := io.WriteString(d.writer, decode(data)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func decode(data map[string]interface{}) string {
	if event, ok := data[Event]; ok && event == Genesis {
		return fmt.Sprintln("Beginning of time at ", data[Genesis])
	}
	var line strings.Builder
	if val, ok := data[Time]; ok {
		fmt.Fprintf(&line, "%6v|", val)
	}
	if val, ok := data[Level]; ok {
		i, _ := strconv.Atoi(val.(string))
		fmt.Fprintf(&line, "%5v|", zerolog.Level(i))
	}
	if val, ok := data[Service]; ok {
		fmt.Fprintf(&line, "%s:%7v|", fieldNameDict[Service], serviceTypeDict[int(val.(float64))])
	}
	for k, v := range data {
		if k == Time || k == Service || k == Event || k == Level {
			continue
		}
		name := k
		if f, ok := fieldNameDict[k]; ok {
			name = f
		}
		fmt.Fprintf(&line, "%9s = %-6v|", name, v)
	}
	if val, ok := data[Event]; ok {
		event := val.(string)
		if full, in := eventTypeDict[event]; in {
			event = full
		}
		fmt.Fprintln(&line, "  "+event)
	}
	return line.String()
}
