package version

import (
	"testing"

	kit "wikientities/internal/platform/testkit"
)

func TestInfo(t *testing.T) {
	kit.Swap(t, &version, "v1.2.3")
	kit.Swap(t, &commit, "abcd")
	bi := Info()
	if bi.Service != "wikientities-subset" || bi.Version != "v1.2.3" || bi.Commit != "abcd" {
		t.Fatalf("Info() = %+v", bi)
	}
	if got := bi.String(); got != "v1.2.3 (commit abcd, built unknown)" {
		t.Fatalf("String() = %q", got)
	}
}
