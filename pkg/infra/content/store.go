package content

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// placeholderHTML is served when a policy has no content reference or the
// referenced template cannot be read. It must look like an ordinary parked
// page, nothing more.
const placeholderHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Welcome</title>
    <style>
        body { font-family: Arial, sans-serif; text-align: center; padding: 80px 20px; color: #333; }
        h1 { font-size: 28px; }
        p { color: #666; }
    </style>
</head>
<body>
    <h1>Welcome</h1>
    <p>This page is currently unavailable.</p>
</body>
</html>
`

// Store serves substitute HTML for blocked visits.
type Store struct {
	logger       *logrus.Logger
	templatesDir string
}

func NewStore(logger *logrus.Logger, templatesDir string) *Store {
	return &Store{logger: logger, templatesDir: templatesDir}
}

// Get returns the HTML for the given content reference. Every failure path
// falls back to the placeholder page so a blocked visitor always gets a
// plausible response.
func (s *Store) Get(ref string) string {
	if ref == "" {
		return placeholderHTML
	}

	name := filepath.Base(ref)
	if name != ref || strings.HasPrefix(name, ".") {
		s.logger.WithField("content_ref", ref).Warn("rejecting content reference with path elements")
		return placeholderHTML
	}
	if filepath.Ext(name) == "" {
		name += ".html"
	}

	data, err := os.ReadFile(filepath.Join(s.templatesDir, name))
	if err != nil {
		s.logger.WithError(err).WithField("content_ref", ref).Warn("failed to read content template")
		return placeholderHTML
	}
	return string(data)
}
