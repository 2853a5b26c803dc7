package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"
)

// listLimit ограничивает списочные команды: консоль кассы не место
// для тысяч строк.
const listLimit = 50

// renderTemplate выводит подготовленные данные через консольный шаблон
func (c *Cli) renderTemplate(tmpl string, data any) error {
	t, err := template.New("cli").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if err := t.Execute(c.io, data); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	return nil
}

// previewJSON сжимает полезную нагрузку до одной короткой строки
func previewJSON(data json.RawMessage) string {
	if len(data) == 0 {
		return "(empty)"
	}
	buf := []byte(data)
	var compact bytes.Buffer
	if err := json.Compact(&compact, buf); err == nil {
		buf = compact.Bytes()
	}
	const maxPreview = 60
	if len(buf) > maxPreview {
		return string(buf[:maxPreview]) + "..."
	}
	return string(buf)
}
