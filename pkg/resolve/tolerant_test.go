package resolve

import "testing"

func TestParseTolerantFillsMissingComponents(t *testing.T) {
	v, err := parseTolerant("v21")
	if err != nil {
		t.Fatalf("parseTolerant: %v", err)
	}
	if v.Major != 21 || v.Minor != 0 || v.Patch != 0 {
		t.Fatalf("got %+v", v)
	}
}

func TestParseTolerantRejectsGarbage(t *testing.T) {
	if _, err := parseTolerant("not-a-version!!"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTolerantCompareOrdersReleaseAboveBeta(t *testing.T) {
	release, _ := parseTolerant("1.2.3")
	pre, _ := parseTolerant("1.2.3-beta1")
	if release.compare(pre) <= 0 {
		t.Fatal("expected release to rank above pre-release of same triple")
	}
}

func TestCompareTolerantFallsBackToStringCompareOnUnparsable(t *testing.T) {
	got := compareTolerant("abc!!", "def!!")
	if got != -1 {
		t.Fatalf("expected lexicographic fallback, got %d", got)
	}
}
