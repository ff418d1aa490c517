package parkfile

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/32bitkid/bitreader"

	"parkedit/research"
	"parkedit/scenario"
)

const maxBodySize = 2 + 2 + 4*(maxItems+3) + maxItems + maxItems/8 + optionsSize

func (f *File) readUncompressed(in InFile, len int) ([]byte, error) {
	b := make([]byte, len)
	n, err := in.Read(b)
	if err != nil {
		return nil, err
	}
	if n != len {
		return nil, fmt.Errorf("readUncompressed: read %d bytes, expected %d", n, len)
	}
	f.checkBytes(b)
	return b, nil
}

func (f *File) readB(in InFile) (byte, error) {
	b, err := f.readUncompressed(in, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (f *File) readW(in InFile) (uint16, error) {
	b, err := f.readUncompressed(in, 2)
	if err != nil {
		return 0, err
	}
	return uint16(b[1])<<8 + uint16(b[0]), nil
}

func (f *File) readL(in InFile) (uint32, error) {
	b, err := f.readUncompressed(in, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[3])<<24 + uint32(b[2])<<16 + uint32(b[1])<<8 + uint32(b[0]), nil
}

func (f *File) readMoney(in InFile) (scenario.Money, error) {
	v, err := f.readL(in)
	return scenario.Money(int32(v)), err
}

func (f *File) readCompressed(in InFile, l int) ([]byte, error) {
	out := make([]byte, 0, l)
	for len(out) < l {
		cb, err := f.readB(in)
		if err != nil {
			return nil, err
		}
		c := int8(cb)
		if c >= 0 {
			r, err := f.readUncompressed(in, int(c)+1)
			if err != nil {
				return nil, err
			}
			out = append(out, r...)
		} else {
			// repeat counts run from 2 to 128; -128 would mean 129
			if c == -128 {
				return nil, fmt.Errorf("readCompressed: invalid repeat chunk %#x", cb)
			}
			b, err := f.readB(in)
			if err != nil {
				return nil, err
			}
			out = append(out, slices.Repeat([]byte{b}, int(-c)+1)...)
		}
	}
	if len(out) != l {
		return nil, fmt.Errorf("readCompressed: got %d bytes, expected %d", len(out), l)
	}
	return out, nil
}

type bytesFile struct {
	data  []byte
	index int
}

func (bf *bytesFile) Read(b []byte) (int, error) {
	l := len(b)
	if l > len(bf.data)-bf.index {
		l = len(bf.data) - bf.index
	}
	copy(b, bf.data[bf.index:bf.index+l])
	bf.index += l
	return l, nil
}

// Uncompress checks the title and reads the body without decoding it. It
// returns the body and the checksum calculated while reading.
func Uncompress(in InFile) (*File, []byte, uint32, error) {
	f := File{
		Checksum: 0,
	}
	title, err := f.readUncompressed(in, maxTitleLength)
	if err != nil {
		return nil, nil, 0, err
	}
	f.Title = strings.TrimRight(string(title), "\x00")
	gotTitleChecksum, err := f.readW(in)
	if err != nil {
		return nil, nil, 0, err
	}
	if gotTitleChecksum != titleChecksum(title) {
		return nil, nil, 0, fmt.Errorf("Load: title %w, file had %v, calculated %v", ErrChecksum, gotTitleChecksum, titleChecksum(title))
	}

	size, err := f.readL(in)
	if err != nil {
		return nil, nil, 0, err
	}
	if size > maxBodySize {
		return nil, nil, 0, fmt.Errorf("Load: body size %d exceeds %d", size, maxBodySize)
	}
	body, err := f.readCompressed(in, int(size))
	if err != nil {
		return nil, nil, 0, err
	}

	calculatedChecksum := f.Checksum + fileChecksumAdd
	f.Checksum, err = f.readL(in)
	if err != nil {
		return nil, nil, 0, err
	}
	if f.Checksum != calculatedChecksum {
		return nil, nil, 0, fmt.Errorf("Load: file %w, read %v, calculated %v", ErrChecksum, f.Checksum, calculatedChecksum)
	}

	return &f, body, calculatedChecksum, nil
}

func Load(in InFile) (*File, error) {
	f, body, checksum, err := Uncompress(in)
	if err != nil {
		return nil, err
	}
	// treat the body as a fake file, so we can reuse the same functions
	bf := &bytesFile{data: body}

	f.Version, err = f.readW(bf)
	if err != nil {
		return nil, err
	}
	if f.Version != currentVersion {
		return nil, fmt.Errorf("Load: unsupported version %d", f.Version)
	}

	if err := f.readResearch(bf); err != nil {
		return nil, fmt.Errorf("Load: research: %w", err)
	}
	if err := f.readOptions(bf); err != nil {
		return nil, fmt.Errorf("Load: options: %w", err)
	}
	if err := f.Research.Validate(); err != nil {
		return nil, fmt.Errorf("Load: research: %w", err)
	}
	if err := f.Options.Validate(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	f.Checksum = checksum
	return f, nil
}

func (f *File) readResearch(bf *bytesFile) error {
	count, err := f.readW(bf)
	if err != nil {
		return err
	}
	if count > maxItems {
		return fmt.Errorf("%d items, max %d", count, maxItems)
	}

	var items []research.Item
	inventedLen := -1
	for {
		raw, err := f.readL(bf)
		if err != nil {
			return err
		}
		switch raw {
		case research.RawInventedEnd:
			if inventedLen >= 0 {
				return fmt.Errorf("second invented separator")
			}
			inventedLen = len(items)
			continue
		case research.RawPendingEnd:
			if inventedLen < 0 {
				return fmt.Errorf("pending separator before invented separator")
			}
			end, err := f.readL(bf)
			if err != nil {
				return err
			}
			if end != research.RawEnd {
				return fmt.Errorf("missing end marker, got %#x", end)
			}
		default:
			it, err := research.ItemFromRaw(raw)
			if err != nil {
				return err
			}
			if len(items) == int(count) {
				return fmt.Errorf("more items than the declared %d", count)
			}
			items = append(items, it)
			continue
		}
		break
	}
	if len(items) != int(count) {
		return fmt.Errorf("got %d items, declared %d", len(items), count)
	}

	categories, err := f.readUncompressed(bf, int(count))
	if err != nil {
		return err
	}
	bitmap, err := f.readUncompressed(bf, (int(count)+7)/8)
	if err != nil {
		return err
	}
	br := bitreader.NewReader(bytes.NewReader(bitmap))
	for i := range items {
		items[i].Category = research.Category(categories[i])
		if !items[i].Category.Valid() {
			return fmt.Errorf("item %d has unknown category %d", i, categories[i])
		}
		items[i].AlwaysResearched, err = br.Read1()
		if err != nil {
			return err
		}
	}

	f.Research = research.State{
		Invented: items[:inventedLen:inventedLen],
		Pending:  items[inventedLen:],
	}
	return nil
}

func (f *File) readOptions(bf *bytesFile) error {
	block, err := f.readUncompressed(bf, optionsSize)
	if err != nil {
		return err
	}
	ob := &bytesFile{data: block}
	o := &f.Options
	for _, m := range []*scenario.Money{&o.InitialCash, &o.InitialLoan, &o.MaxLoan} {
		if *m, err = f.readMoney(ob); err != nil {
			return err
		}
	}
	if o.InterestRate, err = f.readB(ob); err != nil {
		return err
	}
	if o.GuestCash, err = f.readMoney(ob); err != nil {
		return err
	}
	for _, s := range []*uint8{&o.GuestHappiness, &o.GuestHunger, &o.GuestThirst} {
		if *s, err = f.readB(ob); err != nil {
			return err
		}
	}
	for _, m := range []*scenario.Money{&o.LandPrice, &o.ConstructionRightsPrice, &o.EntranceFee} {
		if *m, err = f.readMoney(ob); err != nil {
			return err
		}
	}
	charge, err := f.readB(ob)
	if err != nil {
		return err
	}
	climate, err := f.readB(ob)
	if err != nil {
		return err
	}
	flags, err := f.readW(ob)
	if err != nil {
		return err
	}
	o.ChargeMethod = scenario.ChargeMethod(charge)
	o.Climate = scenario.Climate(climate)
	o.Flags = scenario.Flag(flags)
	return nil
}
