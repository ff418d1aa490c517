package parkfile

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"parkedit/research"
	"parkedit/scenario"
)

type fakeOutFile struct {
	written []byte
}

func (f *fakeOutFile) Write(b []byte) (int, error) {
	f.written = append(f.written, b...)
	return len(b), nil
}

func testFile() *File {
	opts := scenario.Defaults()
	opts.InitialCash = scenario.MakeMoney(25000, 0)
	opts.InterestRate = 7
	opts.Climate = scenario.Cold
	opts.Flags = scenario.ForbidMarketing | scenario.HardParkRating
	var pending []research.Item
	for i := range uint8(11) {
		pending = append(pending, research.Item{
			Type:             research.Ride,
			EntryIndex:       i,
			BaseRideType:     40 + i,
			Category:         research.Category(i % uint8(research.NumCategories)),
			AlwaysResearched: i%3 == 0,
		})
	}
	return &File{
		Title:   "Crazy Castle",
		Version: currentVersion,
		Research: research.State{
			Invented: []research.Item{
				{Type: research.Scenery, EntryIndex: 2, Category: research.SceneryGroup, AlwaysResearched: true},
				{Type: research.Ride, EntryIndex: 200, BaseRideType: 3, Category: research.Shop},
			},
			Pending: pending,
		},
		Options: opts,
	}
}

func TestSaveAndLoad(t *testing.T) {
	want := testFile()

	out := &fakeOutFile{}
	err := want.Save(out)
	if err != nil {
		t.Fatal(err)
	}

	in := &bytesFile{data: out.written}
	got, err := Load(in)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(want, got, cmpopts.EquateEmpty()) {
		t.Errorf("Diff: %v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
	}
}

func TestWriteAndReadFile(t *testing.T) {
	want := testFile()
	path := filepath.Join(t.TempDir(), "castle.park")
	if err := WriteFile(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(want, got, cmpopts.EquateEmpty()) {
		t.Errorf("Diff: %v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); !errors.Is(err, ErrChecksum) {
		t.Errorf("ReadFile of corrupted file = %v, want ErrChecksum", err)
	}
}

func TestSaveAndLoadEmpty(t *testing.T) {
	want := &File{Title: "empty", Version: currentVersion, Options: scenario.Defaults()}
	out := &fakeOutFile{}
	if err := want.Save(out); err != nil {
		t.Fatal(err)
	}
	got, err := Load(&bytesFile{data: out.written})
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(want, got, cmpopts.EquateEmpty()) {
		t.Errorf("Diff: %v", cmp.Diff(want, got, cmpopts.EquateEmpty()))
	}
}

func TestLoadRejectsCorruption(t *testing.T) {
	out := &fakeOutFile{}
	if err := testFile().Save(out); err != nil {
		t.Fatal(err)
	}

	title := slices.Clone(out.written)
	title[0] ^= 0xff
	if _, err := Load(&bytesFile{data: title}); !errors.Is(err, ErrChecksum) {
		t.Errorf("title corruption: got %v, want ErrChecksum", err)
	}

	trailer := slices.Clone(out.written)
	trailer[len(trailer)-1] ^= 0xff
	if _, err := Load(&bytesFile{data: trailer}); !errors.Is(err, ErrChecksum) {
		t.Errorf("trailer corruption: got %v, want ErrChecksum", err)
	}

	if _, err := Load(&bytesFile{data: out.written[:len(out.written)/2]}); err == nil {
		t.Error("truncated file loaded")
	}
}

func TestLoadRejectsMalformedBody(t *testing.T) {
	opts := scenario.Defaults()
	options := encodeOptions(&opts)
	badOpts := opts
	badOpts.ChargeMethod = 9
	ride := research.Item{Type: research.Ride, EntryIndex: 1, BaseRideType: 2}.Raw()
	inv, pend, end := l(research.RawInventedEnd), l(research.RawPendingEnd), l(research.RawEnd)

	tests := []struct {
		name string
		body []byte
	}{
		{"unknown version", slices.Concat(w(2), w(0), inv, pend, end, options)},
		{"pending before invented", slices.Concat(w(1), w(0), pend, end, options)},
		{"second invented separator", slices.Concat(w(1), w(0), inv, inv, pend, end, options)},
		{"missing end marker", slices.Concat(w(1), w(0), inv, pend, l(0), options)},
		{"unknown entry type", slices.Concat(w(1), w(1), l(0x050001), inv, pend, end, []byte{0, 0}, options)},
		{"category out of range", slices.Concat(w(1), w(1), l(ride), inv, pend, end, []byte{byte(research.NumCategories), 0}, options)},
		{"fewer items than declared", slices.Concat(w(1), w(2), l(ride), inv, pend, end, []byte{1, 1, 0}, options)},
		{"more items than declared", slices.Concat(w(1), w(0), l(ride), inv, pend, end, options)},
		{"too many items declared", slices.Concat(w(1), w(maxItems+1), inv, pend, end, options)},
		{"duplicate item", slices.Concat(w(1), w(2), l(ride), inv, l(ride), pend, end, []byte{1, 1, 0}, options)},
		{"invalid options", slices.Concat(w(1), w(0), inv, pend, end, encodeOptions(&badOpts))},
		{"short body", slices.Concat(w(1), w(0), inv, pend, end)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &fakeOutFile{}
			f := &File{Title: "malformed"}
			if err := f.writeFrame(out, tt.body); err != nil {
				t.Fatal(err)
			}
			got, err := Load(&bytesFile{data: out.written})
			if err == nil {
				t.Fatalf("Load succeeded: %+v", got)
			}
			if errors.Is(err, ErrChecksum) {
				t.Errorf("Load = %v, want a body error", err)
			}
		})
	}
}

func TestReadCompressedRejectsBadRepeat(t *testing.T) {
	f := &File{}
	if _, err := f.readCompressed(&bytesFile{data: []byte{0x80, 7}}, 200); err == nil {
		t.Error("repeat chunk 0x80 accepted")
	}

	out := &fakeOutFile{}
	if err := testFile().Save(out); err != nil {
		t.Fatal(err)
	}
	data := slices.Clone(out.written)
	data[maxTitleLength+2+4] = 0x80
	if _, err := Load(&bytesFile{data: data}); err == nil {
		t.Error("Load accepted a body starting with repeat chunk 0x80")
	}
}

func TestValidate(t *testing.T) {
	f := testFile()
	f.Title = "a title that is much too long to fit in the header field"
	if err := f.Validate(); err == nil {
		t.Error("long title accepted")
	}

	f = testFile()
	f.Research.Invented = append(f.Research.Invented, f.Research.Pending[0])
	if err := f.Save(&fakeOutFile{}); err == nil {
		t.Error("duplicate research item saved")
	}

	f = testFile()
	f.Options.InterestRate = 200
	if err := f.Validate(); !errors.Is(err, scenario.ErrInvalid) {
		t.Errorf("bad options: %v", err)
	}
}

func TestReadCompressed(t *testing.T) {
	in := &bytesFile{data: []byte{0xFD, 42, 1, 3, 4}}
	want := []byte{42, 42, 42, 42, 3, 4}
	f := File{}
	got, err := f.readCompressed(in, len(want))
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(want, got) {
		t.Errorf("Got %v, wanted %v", got, want)
	}
}

func TestWriteCompressed(t *testing.T) {
	data := slices.Concat([]byte{1, 2}, slices.Repeat([]byte{7}, 300), []byte{3, 3, 4})
	out := &fakeOutFile{}
	f := File{}
	if err := f.writeCompressed(out, data); err != nil {
		t.Fatal(err)
	}
	if len(out.written) >= len(data)/4 {
		t.Errorf("compressed %d bytes into %d", len(data), len(out.written))
	}
	got, err := f.readCompressed(&bytesFile{data: out.written}, len(data))
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(data, got) {
		t.Errorf("Diff: %v", cmp.Diff(data, got))
	}
}

func TestBits(t *testing.T) {
	got := bits([]bool{true, false, false, false, false, false, false, true, true})
	want := []byte{0x81, 0x80}
	if !cmp.Equal(want, got) {
		t.Errorf("Got %x, wanted %x", got, want)
	}
}
