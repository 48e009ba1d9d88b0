package table

import (
	"reflect"
	"testing"
)

func TestFormatPadsColumns(t *testing.T) {
	got := Format([][]string{
		{"ping", "Ping Machine", "no"},
		{"issue_shutdown", "Shutdown", "yes"},
	}, []Alignment{AlignLeft, AlignLeft, AlignRight})
	want := []string{
		"ping            Ping Machine   no",
		"issue_shutdown  Shutdown      yes",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestFormatRaggedRows(t *testing.T) {
	got := Format([][]string{{"a", "b"}, {"ccc"}}, nil)
	want := []string{"a    b", "ccc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestKeyValues(t *testing.T) {
	got := KeyValues([][2]string{{"bridge", "host"}, {"output policy", "resolved"}})
	want := []string{"       bridge  host", "output policy  resolved"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}
