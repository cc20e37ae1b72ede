package buildinfo_test

import (
	"strings"
	"testing"

	"github.com/matzehuels/fatou/pkg/buildinfo"
)

func TestString(t *testing.T) {
	s := buildinfo.String()
	for _, want := range []string{
		"version: " + buildinfo.Version,
		"commit: " + buildinfo.Commit,
		"built: " + buildinfo.Date,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	tpl := buildinfo.Template()
	if !strings.Contains(tpl, "{{.Name}}") {
		t.Errorf("Template() = %q, missing the cobra name placeholder", tpl)
	}
	if !strings.HasSuffix(tpl, "\n") {
		t.Errorf("Template() = %q, want trailing newline", tpl)
	}
}
