package naica

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// EnvAttachmentDirectory names the variable holding the attachment directory.
	EnvAttachmentDirectory = "NAICA_ATTACHMENT_DIR"
	// EnvReportDirectory names the variable holding the report directory.
	EnvReportDirectory = "NAICA_REPORT_DIR"
)

// Properties supplies storage locations to attachment capturers and report
// exporters. The engine itself never touches the file system.
type Properties interface {
	// AttachmentDirectory is where captured attachments are written.
	AttachmentDirectory() string
	// ReportDirectory is where exporters write reports.
	ReportDirectory() string
}

// StaticProperties is a Properties value with fixed directories.
type StaticProperties struct {
	Attachments string
	Reports     string
}

// AttachmentDirectory implements Properties.
func (p StaticProperties) AttachmentDirectory() string {
	return p.Attachments
}

// ReportDirectory implements Properties.
func (p StaticProperties) ReportDirectory() string {
	return p.Reports
}

// NewDirProperties lays attachments and reports out under a single base
// directory: <base>/attachments and <base>/report.
func NewDirProperties(base string) StaticProperties {
	return StaticProperties{
		Attachments: filepath.Join(base, "attachments"),
		Reports:     filepath.Join(base, "report"),
	}
}

// LoadEnvProperties reads the directories from dotenv files. Keys missing
// from the files fall back to the process environment. With no files the
// process environment alone is used.
func LoadEnvProperties(files ...string) (StaticProperties, error) {
	values := map[string]string{}
	if len(files) > 0 {
		read, err := godotenv.Read(files...)
		if err != nil {
			return StaticProperties{}, fmt.Errorf("could not read properties: %w", err)
		}
		values = read
	}

	lookup := func(key string) string {
		if v, ok := values[key]; ok && v != "" {
			return v
		}
		return os.Getenv(key)
	}

	return StaticProperties{
		Attachments: lookup(EnvAttachmentDirectory),
		Reports:     lookup(EnvReportDirectory),
	}, nil
}
