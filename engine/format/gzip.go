package format

import (
	"bytes"
	"compress/gzip"
	"io"
)

// gzipJSONAdapter wraps the JSON adapter in a gzip frame for bulky artifacts.
type gzipJSONAdapter struct{}

func (gzipJSONAdapter) Parse(data []byte) (map[string]any, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, newMalformedError(err, GzipJSON)
	}
	defer reader.Close()
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, newMalformedError(err, GzipJSON)
	}
	return jsonAdapter{}.Parse(raw)
}

func (gzipJSONAdapter) Render(tree map[string]any) ([]byte, error) {
	raw, err := jsonAdapter{}.Render(tree)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(raw); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
