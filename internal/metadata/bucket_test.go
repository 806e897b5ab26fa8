package metadata

import (
	"reflect"
	"testing"

	"github.com/KaramelBytes/metamon-cli/internal/data"
	"github.com/shopspring/decimal"
)

func ints(xs ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(xs))
	for i, x := range xs {
		out[i] = decimal.NewFromInt(x)
	}
	return out
}

func TestBucketize(t *testing.T) {
	cases := []struct {
		name       string
		numbers    []decimal.Decimal
		boundaries []decimal.Decimal
		variable   string
		want       []string
	}{
		{"no numbers", nil, nil, "", []string{}},
		{"no numbers with boundaries", nil, ints(0, 1), "", []string{}},
		{"no boundaries", ints(-1, 0, 1), nil, "", []string{"-inf<x<inf", "-inf<x<inf", "-inf<x<inf"}},
		{"single boundary", ints(-1, 0, 1), ints(0), "", []string{"x<0", "0<=x", "0<=x"}},
		{"below and inside", ints(-10, 10), ints(0, 3, 12), "", []string{"x<0", "3<=x<12"}},
		{"inside and above", ints(-10, 10), ints(-20, 3, 9), "", []string{"-20<=x<3", "9<=x"}},
		{"below and above", ints(-10, 10), ints(1, 3, 5), "", []string{"x<1", "5<=x"}},
		{"normal", ints(0, 1, 2, 3, 4), ints(-2, 0, 1, 3, 4, 8), "", []string{"0<=x<1", "1<=x<3", "1<=x<3", "3<=x<4", "4<=x<8"}},
		{"named", ints(0, 1, 2, 3, 4), ints(-2, 0, 1, 3, 4, 8), "y", []string{"0<=y<1", "1<=y<3", "1<=y<3", "3<=y<4", "4<=y<8"}},
		{"unsorted boundaries", ints(2), ints(12, 0, 3), "", []string{"0<=x<3"}},
		{"duplicate boundaries", ints(1), ints(0, 0, 5), "", []string{"0<=x<5"}},
		{"decimal boundaries", []decimal.Decimal{dec("0.5")}, decs("-0.25", "0.75"), "v", []string{"-0.25<=v<0.75"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Bucketize(tc.numbers, tc.boundaries, tc.variable)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBucketizeLeavesBoundariesAlone(t *testing.T) {
	b := ints(12, 0, 3)
	_ = Bucketize(ints(1), b, "x")
	if !reflect.DeepEqual(b, ints(12, 0, 3)) {
		t.Fatalf("boundaries reordered: %v", b)
	}
}

func TestBoundaries(t *testing.T) {
	assertDecimals(t, Boundaries(ints(0, 10), 5), ints(0, 2, 4, 6, 8, 10))
	assertDecimals(t, Boundaries(ints(1, 2), 3), decs("1", "1.33", "1.67", "2"))
	// 0.001 apart: interior points round onto the end points and collapse
	assertDecimals(t, Boundaries(decs("0", "0.001"), 4), decs("0", "0.001"))
	assertDecimals(t, Boundaries(ints(7, 7, 7), 10), ints(7))
	// interior points rounding outside a tight range are clamped to it
	tight := decs("1.004", "1.005", "1.006")
	bounds := Boundaries(tight, 3)
	assertDecimals(t, bounds, decs("1.004", "1.006"))
	got := Bucketize(tight, bounds, "")
	want := []string{"1.004<=x<1.006", "1.004<=x<1.006", "1.006<=x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tight labels = %v, want %v", got, want)
		}
	}
	if got := Boundaries(nil, 10); got != nil {
		t.Fatalf("no numbers: got %v", got)
	}
	if got := Boundaries(ints(1, 2), 0); got != nil {
		t.Fatalf("k=0: got %v", got)
	}
}

func TestStats(t *testing.T) {
	nums := decs("3", "-1", "2.5", "10")
	if got := Min(nums); !got.Equal(dec("-1")) {
		t.Fatalf("min = %s", got)
	}
	if got := Max(nums); !got.Equal(dec("10")) {
		t.Fatalf("max = %s", got)
	}
	if got := Median(nums); !got.Equal(dec("2.75")) {
		t.Fatalf("median = %s", got)
	}
	if got := Median(decs("5", "1", "3")); !got.Equal(dec("3")) {
		t.Fatalf("odd median = %s", got)
	}
	if !nums[0].Equal(dec("3")) {
		t.Fatalf("median sorted its input")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("median of nothing should panic")
		}
	}()
	Median(nil)
}

func TestStorageTypes(t *testing.T) {
	if got := StorageTypes(nil); len(got) != 0 {
		t.Fatalf("empty input: %v", got)
	}
	got := StorageTypes(vals("a", 1, nil, true, 2.5, "b"))
	want := []StorageType{StorageBoolean, StorageNull, StorageNumber, StorageString}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAllBooleanLike(t *testing.T) {
	if !AllBooleanLike(vals("t", "f", "TRUE", "0", 1, true)) {
		t.Fatalf("expected boolean-like")
	}
	if AllBooleanLike(vals("t", "f", "2")) {
		t.Fatalf("\"2\" should disqualify")
	}
	if !AllBooleanLike(vals(nil, 0.0, "False", false)) {
		t.Fatalf("nulls and zero should pass")
	}
	if AllBooleanLike(vals(0.5)) || AllBooleanLike(vals(" t")) || AllBooleanLike(vals("yes")) {
		t.Fatalf("unexpected boolean-like value")
	}
	if !AllBooleanLike(nil) {
		t.Fatalf("vacuously boolean-like")
	}
}

func TestAllNumeric(t *testing.T) {
	ok, got := AllNumeric(vals("1", "2.5", nil))
	if !ok {
		t.Fatalf("expected numeric")
	}
	if len(got) != 3 || !got[0].Decimal.Equal(dec("1")) || !got[1].Decimal.Equal(dec("2.5")) || got[2].Valid {
		t.Fatalf("coerced = %v", got)
	}
	nums := presentNumbers(got)
	if !Min(nums).Equal(dec("1")) || !Max(nums).Equal(dec("2.5")) || !Median(nums).Equal(dec("1.75")) {
		t.Fatalf("stats over %v", nums)
	}

	ok, got = AllNumeric(vals(true, false, 4, " 12 ", "-3e2", "123456789012345678901234567890"))
	if !ok {
		t.Fatalf("expected numeric")
	}
	want := []string{"1", "0", "4", "12", "-300", "123456789012345678901234567890"}
	for i, w := range want {
		if !got[i].Valid || !got[i].Decimal.Equal(dec(w)) {
			t.Fatalf("coerced[%d] = %v, want %s", i, got[i], w)
		}
	}

	// text keeps every digit and accepts underscores between digits
	ok, got = AllNumeric(vals("0.12345678901234567890", "1_000", "1_000.5", "1e400"))
	if !ok {
		t.Fatalf("expected numeric")
	}
	exact := []decimal.Decimal{dec("0.1234567890123456789"), dec("1000"), dec("1000.5"), decimal.New(1, 400)}
	for i, w := range exact {
		if !got[i].Valid || !got[i].Decimal.Equal(w) {
			t.Fatalf("coerced[%d] = %v, want %s", i, got[i], w)
		}
	}

	for _, bad := range [][]data.Value{
		vals("1", "x"), vals(""), vals("inf"), vals("NaN"), vals("1,5"),
		vals("_1"), vals("1_"), vals("1__0"), vals("1_.5"), vals("1e99999"),
	} {
		if ok, _ := AllNumeric(bad); ok {
			t.Fatalf("%#v should not be numeric", bad)
		}
	}
}
