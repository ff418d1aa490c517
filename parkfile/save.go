package parkfile

import (
	"fmt"
	"slices"

	"parkedit/research"
	"parkedit/scenario"
)

func pad(b []byte, l int) []byte {
	return append(b, slices.Repeat([]byte{0}, l-len(b))...)
}

func b(i uint8) []byte {
	return []byte{byte(i)}
}

func w(i uint16) []byte {
	return []byte{byte(i & 0xff), byte((i >> 8) & 0xff)}
}

func l(i uint32) []byte {
	return []byte{byte(i & 0xff), byte((i >> 8) & 0xff), byte((i >> 16) & 0xff), byte((i >> 24) & 0xff)}
}

func money(m scenario.Money) []byte {
	return l(uint32(int32(m)))
}

// bits packs flags most significant bit first, padding the last byte.
func bits(in []bool) []byte {
	out := make([]byte, (len(in)+7)/8)
	for i, v := range in {
		if v {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

func (f *File) writeUncompressed(out OutFile, b []byte) error {
	n, err := out.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("writeUncompressed wrote %d bytes, expected %d", n, len(b))
	}
	f.checkBytes(b)
	return nil
}

// writeCompressed emits runs of three or more equal bytes as repeat chunks
// and everything else as literal chunks of up to 128 bytes.
func (f *File) writeCompressed(out OutFile, data []byte) error {
	const maxc = 127 + 1
	var literal []byte
	flush := func() error {
		for len(literal) > 0 {
			c := min(len(literal), maxc)
			if err := f.writeUncompressed(out, append([]byte{byte(c - 1)}, literal[:c]...)); err != nil {
				return err
			}
			literal = literal[c:]
		}
		return nil
	}
	for i := 0; i < len(data); {
		run := 1
		for i+run < len(data) && run < maxc && data[i+run] == data[i] {
			run++
		}
		if run < 3 {
			literal = append(literal, data[i:i+run]...)
			i += run
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		if err := f.writeUncompressed(out, []byte{byte(int8(1 - run)), data[i]}); err != nil {
			return err
		}
		i += run
	}
	return flush()
}

func (f *File) Validate() error {
	if len(f.Title) > maxTitleLength {
		return fmt.Errorf("Title too long (%d), max length %d", len(f.Title), maxTitleLength)
	}
	if f.Version != 0 && f.Version != currentVersion {
		return fmt.Errorf("unsupported version %d", f.Version)
	}
	if n := f.Research.Len(); n > maxItems {
		return fmt.Errorf("Too many research items (%d), max %d", n, maxItems)
	}
	if err := f.Research.Validate(); err != nil {
		return fmt.Errorf("research: %w", err)
	}
	if err := f.Options.Validate(); err != nil {
		return err
	}
	return nil
}

func encodeOptions(o *scenario.Options) []byte {
	return pad(slices.Concat(
		money(o.InitialCash),
		money(o.InitialLoan),
		money(o.MaxLoan),
		b(o.InterestRate),
		money(o.GuestCash),
		b(o.GuestHappiness),
		b(o.GuestHunger),
		b(o.GuestThirst),
		money(o.LandPrice),
		money(o.ConstructionRightsPrice),
		money(o.EntranceFee),
		b(uint8(o.ChargeMethod)),
		b(uint8(o.Climate)),
		w(uint16(o.Flags)),
	), optionsSize)
}

func encodeResearch(s *research.State) []byte {
	var raws, categories []byte
	var locked []bool
	for _, list := range []research.ListID{research.Invented, research.Pending} {
		for _, it := range s.List(list) {
			raws = append(raws, l(it.Raw())...)
			categories = append(categories, byte(it.Category))
			locked = append(locked, it.AlwaysResearched)
		}
		if list == research.Invented {
			raws = append(raws, l(research.RawInventedEnd)...)
		} else {
			raws = append(raws, l(research.RawPendingEnd)...)
		}
	}
	return slices.Concat(
		w(uint16(s.Len())),
		raws,
		l(research.RawEnd),
		categories,
		bits(locked),
	)
}

func (f *File) Save(out OutFile) error {
	if err := f.Validate(); err != nil {
		return err
	}

	body := slices.Concat(
		w(currentVersion),
		encodeResearch(&f.Research),
		encodeOptions(&f.Options),
	)
	return f.writeFrame(out, body)
}

// writeFrame writes the title, the compressed body and the checksums around it.
func (f *File) writeFrame(out OutFile, body []byte) error {
	f.Checksum = 0
	title := pad([]byte(f.Title), maxTitleLength)
	err := f.writeUncompressed(out, slices.Concat(title, w(titleChecksum(title))))
	if err != nil {
		return err
	}

	err = f.writeUncompressed(out, l(uint32(len(body))))
	if err != nil {
		return err
	}
	err = f.writeCompressed(out, body)
	if err != nil {
		return err
	}

	f.Checksum += fileChecksumAdd
	n, err := out.Write(l(f.Checksum))
	if err != nil {
		return err
	}
	if n != 4 {
		return fmt.Errorf("wrote %d bytes for the file checksum, expected 4", n)
	}
	return nil
}
