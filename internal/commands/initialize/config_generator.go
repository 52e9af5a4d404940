package initialize

import (
	"bytes"

	"github.com/goccy/go-yaml"
)

const configHeader = `# vdocs configuration file
# Values can be overridden with VDOCS_* environment variables or a .env file.

`

// optionalSections documents the settings init does not write.
const optionalSections = `
# manifest:
#   candidates: ["../versions.json", "./versions.json"]
#   fallback: single      # single | none
#   timeout: 10s
# resolver:
#   reserved: [test, latest, dev]
# landing:
#   delay: 30s            # countdown before redirecting to the latest version
# rebuild:
#   concurrency: 4
#   backup_suffix: .redoc
#   cleanup: ["**/*.backup"]
# storage:                # credentials belong in VDOCS_S3_ACCESS_KEY / VDOCS_S3_SECRET_KEY
#   endpoint: s3.amazonaws.com
#   bucket: my-api-docs
#   prefix: docs
#   use_ssl: true
`

// commentedMarshaler wraps the YAML encoding of a config with a header and
// commented examples of the optional sections.
type commentedMarshaler struct{}

func (commentedMarshaler) Marshal(v any) ([]byte, error) {
	body, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(configHeader)
	buf.Write(body)
	buf.WriteString(optionalSections)
	return buf.Bytes(), nil
}
