package directive

import (
	"reflect"
	"testing"

	"github.com/matzehuels/pic/pkg/errors"
)

func TestParseInfo(t *testing.T) {
	tests := []struct {
		info     string
		name     string
		wantArgs []string
		wantOK   bool
	}{
		{"{pic} dot", "pic", []string{"dot"}, true},
		{"pic dot", "pic", []string{"dot"}, true},
		{"{pic} dot graphs/a.dot", "pic", []string{"dot", "graphs/a.dot"}, true},
		{"  {pic}   dot  ", "pic", []string{"dot"}, true},
		{"{pic}", "pic", []string{}, true},
		{"{diagram} uml", "diagram", []string{"uml"}, true},
		{"{diagram} uml", "pic", nil, false},
		{"go", "pic", nil, false},
		{"picture", "pic", nil, false},
		{"", "pic", nil, false},
	}

	for _, tt := range tests {
		args, ok := ParseInfo(tt.info, tt.name)
		if ok != tt.wantOK {
			t.Errorf("ParseInfo(%q, %q) ok = %v, want %v", tt.info, tt.name, ok, tt.wantOK)
			continue
		}
		if ok && !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("ParseInfo(%q, %q) = %q, want %q", tt.info, tt.name, args, tt.wantArgs)
		}
	}
}

func TestParse(t *testing.T) {
	body := ":caption: A graphviz dot graph\n:align: left\n\ndigraph G { client -> server }\n"

	d, err := Parse("{pic} dot", body, 12)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if d.Language != "dot" || d.File != "" || d.Line != 12 {
		t.Errorf("Parse() = %+v", d)
	}
	wantOpts := map[string]string{"caption": "A graphviz dot graph", "align": "left"}
	if !reflect.DeepEqual(d.Options, wantOpts) {
		t.Errorf("Options = %v, want %v", d.Options, wantOpts)
	}
	if d.Content != "digraph G { client -> server }\n" {
		t.Errorf("Content = %q", d.Content)
	}
}

func TestParseOptionLines(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOpts    map[string]string
		wantContent string
	}{
		{
			name:        "no options",
			body:        "a -> b\n",
			wantOpts:    map[string]string{},
			wantContent: "a -> b\n",
		},
		{
			name:        "options without separator",
			body:        ":align: right\na -> b",
			wantOpts:    map[string]string{"align": "right"},
			wantContent: "a -> b",
		},
		{
			name:        "only one blank separator consumed",
			body:        ":alt: x\n\n\na -> b",
			wantOpts:    map[string]string{"alt": "x"},
			wantContent: "\na -> b",
		},
		{
			name:        "empty option value",
			body:        ":caption:\na",
			wantOpts:    map[string]string{"caption": ""},
			wantContent: "a",
		},
		{
			name:        "colon lines after content are code",
			body:        "a -> b\n:align: left",
			wantOpts:    map[string]string{},
			wantContent: "a -> b\n:align: left",
		},
		{
			name:        "crlf option lines",
			body:        ":align: left\r\n\r\nA",
			wantOpts:    map[string]string{"align": "left"},
			wantContent: "A",
		},
		{
			name:        "options only",
			body:        ":alt: nothing",
			wantOpts:    map[string]string{"alt": "nothing"},
			wantContent: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse("{pic} dot", tt.body, 0)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if !reflect.DeepEqual(d.Options, tt.wantOpts) {
				t.Errorf("Options = %v, want %v", d.Options, tt.wantOpts)
			}
			if d.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", d.Content, tt.wantContent)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		info string
		body string
		code errors.Code
	}{
		{"missing language", "{pic}", "A", errors.ErrCodeInvalidOption},
		{"too many arguments", "{pic} dot a.dot b.dot", "", errors.ErrCodeInvalidOption},
		{"duplicate option", "{pic} dot", ":align: left\n:align: right\nA", errors.ErrCodeInvalidOption},
		{"not a directive", "go", "A", errors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.info, tt.body, 0)
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseNamed(t *testing.T) {
	d, err := ParseNamed("diagram", "diagram uml", "A -> B", 3)
	if err != nil {
		t.Fatalf("ParseNamed() error: %v", err)
	}
	if d.Language != "uml" {
		t.Errorf("Language = %q", d.Language)
	}
	if _, err := ParseNamed("diagram", "{pic} uml", "A", 3); err == nil {
		t.Error("ParseNamed() should reject other directive names")
	}
}
