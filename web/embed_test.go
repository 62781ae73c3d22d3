package web

import (
	"io/fs"
	"testing"
)

func TestEmbeddedAssets(t *testing.T) {
	panels := []string{"layout", "index", "budget", "planning", "sip", "emi", "expenses", "investments", "education"}
	for _, name := range panels {
		if _, err := fs.Stat(TemplatesFS, "templates/"+name+".html"); err != nil {
			t.Fatalf("template %s not embedded: %v", name, err)
		}
	}
	if _, err := fs.Stat(StaticFS, "static/app.css"); err != nil {
		t.Fatalf("stylesheet not embedded: %v", err)
	}
}
