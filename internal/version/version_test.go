package version

import (
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	if v == "" {
		t.Fatal("GetVersion() returned an empty string")
	}
	if strings.HasPrefix(v, "v") {
		t.Errorf("GetVersion() = %q, want no v prefix", v)
	}
	if strings.ContainsAny(v, " \n") {
		t.Errorf("GetVersion() = %q contains whitespace", v)
	}
}
