package main

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"image/png"
	"log"
	"math/rand/v2"
	"os"

	"parkedit/config"
	"parkedit/mapgen"
	"parkedit/parkfile"
	"parkedit/research"
	"parkedit/scenario"
	"parkedit/store"
)

const usage = `Usage: parkedit COMMAND [flags] ARGS

  new      -title T OUT          create an empty park file
  show     FILE                  print research lists and options
  add      [flags] FILE          append a research item
  move     [flags] FILE          drag a research item to another row
  shuffle  FILE                  shuffle the research order
  promote  FILE                  move every unlocked item to invented
  demote   FILE                  move every unlocked item to pending
  option   [flags] FILE          step or toggle a scenario option
  preset   save|load|list|delete [NAME FILE]
  mapgen   [flags] OUT.png       generate terrain and write a preview
`

var cfg config.Config

func main() {
	log.SetFlags(0)
	log.SetPrefix("parkedit: ")

	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "new":
		err = cmdNew(args)
	case "show":
		err = cmdShow(args)
	case "add":
		err = cmdAdd(args)
	case "move":
		err = cmdMove(args)
	case "shuffle", "promote", "demote":
		err = cmdBulk(cmd, args)
	case "option":
		err = cmdOption(args)
	case "preset":
		err = cmdPreset(args)
	case "mapgen":
		err = cmdMapgen(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

// newSeed returns cfg.Seed, or a fresh seed from crypto/rand when it is 0.
func newSeed() (int64, error) {
	if cfg.Seed != 0 {
		return cfg.Seed, nil
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func oneArg(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected one file argument, got %d", fs.NArg())
	}
	return fs.Arg(0), nil
}

// edit loads path, applies fn to an editor over its research lists and saves.
func edit(path string, fn func(e *research.Editor, f *parkfile.File) error, opts ...research.Option) error {
	f, err := parkfile.ReadFile(path)
	if err != nil {
		return err
	}
	seed, err := newSeed()
	if err != nil {
		return err
	}
	opts = append([]research.Option{
		research.WithRowHeight(cfg.RowHeight),
		research.WithRand(rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))),
		research.WithNotify(func(c research.Change) { log.Print(describeChange(c)) }),
	}, opts...)
	e := research.NewEditor(&f.Research, opts...)
	if err := fn(e, f); err != nil {
		return err
	}
	return parkfile.WriteFile(path, f)
}

func describeChange(c research.Change) string {
	switch c.Kind {
	case research.Shuffled, research.Promoted, research.Demoted:
		return fmt.Sprintf("%v %d items", c.Kind, c.Count)
	}
	return fmt.Sprintf("%v %v -> %v", c.Kind, c.Item, c.List)
}

func cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	title := fs.String("title", "Untitled Park", "park title")
	path, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	f := &parkfile.File{Title: *title, Options: scenario.Defaults()}
	if err := parkfile.WriteFile(path, f); err != nil {
		return err
	}
	log.Printf("created %s", path)
	return nil
}

func cmdShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	path, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	f, err := parkfile.ReadFile(path)
	if err != nil {
		return err
	}
	lang := cfg.Language()
	fmt.Printf("%s\n", f.Title)
	for _, list := range []research.ListID{research.Invented, research.Pending} {
		fmt.Printf("\n%s:\n", list)
		for i, it := range f.Research.List(list) {
			fmt.Printf("  %3d  %v  %s\n", i, it, it.Category)
		}
	}
	fmt.Printf("\noptions:\n")
	for _, s := range scenario.Settings() {
		lo, hi := scenario.Range(s)
		fmt.Printf("  %-26s %-16s [%d..%d]\n", s, f.Options.FormatValue(lang, s), lo, hi)
	}
	fmt.Printf("  %-26s %v\n", "charge", f.Options.ChargeMethod)
	fmt.Printf("  %-26s %v\n", "climate", f.Options.Climate)
	for _, fl := range []scenario.Flag{
		scenario.NoMoney, scenario.ForbidMarketing, scenario.PreferLessIntense,
		scenario.PreferMoreIntense, scenario.ForbidTreeRemoval, scenario.ForbidLandscapeChanges,
		scenario.ForbidHighConstruction, scenario.HardParkRating, scenario.HardGuestGeneration,
	} {
		fmt.Printf("  %-26s %v\n", fl, f.Options.Has(fl))
	}
	return nil
}

func cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	listName := fs.String("list", "pending", "invented or pending")
	typ := fs.String("type", "ride", "ride or scenery")
	entry := fs.Uint("entry", 0, "object entry index")
	rideType := fs.Uint("ride-type", 0, "base ride type (rides only)")
	category := fs.String("category", "gentle", "research category")
	locked := fs.Bool("locked", false, "always researched")
	path, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	list, err := research.ParseListID(*listName)
	if err != nil {
		return err
	}
	cat, err := research.ParseCategory(*category)
	if err != nil {
		return err
	}
	if *entry > 0xff || *rideType > 0xff {
		return fmt.Errorf("entry and ride type must be below 256")
	}
	it := research.Item{
		EntryIndex:       uint8(*entry),
		BaseRideType:     uint8(*rideType),
		Category:         cat,
		AlwaysResearched: *locked,
	}
	switch *typ {
	case "ride":
		it.Type = research.Ride
	case "scenery":
		it.Type = research.Scenery
	default:
		return fmt.Errorf("unknown item type %q", *typ)
	}

	f, err := parkfile.ReadFile(path)
	if err != nil {
		return err
	}
	if _, _, ok := f.Research.Find(it); ok {
		return fmt.Errorf("%v is already listed", it)
	}
	if list == research.Invented {
		f.Research.Invented = append(f.Research.Invented, it)
	} else {
		f.Research.Pending = append(f.Research.Pending, it)
	}
	return parkfile.WriteFile(path, f)
}

func cmdMove(args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	fromList := fs.String("from-list", "pending", "list to pick the item from")
	fromRow := fs.Int("row", 0, "row of the item to move")
	toList := fs.String("to-list", "pending", "list to drop the item into")
	toRow := fs.Int("to-row", 0, "row to drop onto; past the end appends")
	path, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	from, err := research.ParseListID(*fromList)
	if err != nil {
		return err
	}
	to, err := research.ParseListID(*toList)
	if err != nil {
		return err
	}
	h := cfg.RowHeight
	// rows are addressed directly, so the mapper ignores the pointer
	rows := research.RowMapperFunc(func(research.Point) (research.ListID, int, bool) {
		return to, *toRow * h, true
	})
	return edit(path, func(e *research.Editor, _ *parkfile.File) error {
		if !e.CanPickUp(from, *fromRow*h) {
			return fmt.Errorf("no movable item at %v row %d", from, *fromRow)
		}
		e.BeginDragAt(from, *fromRow*h)
		e.Drop(research.Point{})
		return nil
	}, research.WithRowMapper(rows))
}

func cmdBulk(cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	path, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	return edit(path, func(e *research.Editor, _ *parkfile.File) error {
		switch cmd {
		case "shuffle":
			e.Shuffle()
		case "promote":
			e.PromoteAll()
		case "demote":
			e.DemoteAll()
		}
		return nil
	})
}

func cmdOption(args []string) error {
	fs := flag.NewFlagSet("option", flag.ExitOnError)
	set := fs.String("set", "", "setting to step, e.g. initial-cash")
	dir := fs.String("dir", "up", "up or down")
	toggle := fs.String("toggle", "", "park flag to toggle, e.g. forbid-marketing")
	charge := fs.Int("charge", -1, "charge method 0-2")
	climate := fs.Int("climate", -1, "climate 0-3")
	path, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	f, err := parkfile.ReadFile(path)
	if err != nil {
		return err
	}
	o := &f.Options
	if *set != "" {
		s, err := scenario.ParseSetting(*set)
		if err != nil {
			return err
		}
		d, err := scenario.ParseDirection(*dir)
		if err != nil {
			return err
		}
		if err := o.Step(s, d); err != nil {
			return err
		}
		log.Printf("%v = %s", s, o.FormatValue(cfg.Language(), s))
	}
	if *toggle != "" {
		fl, err := scenario.ParseFlag(*toggle)
		if err != nil {
			return err
		}
		o.Toggle(fl)
		log.Printf("%v = %v", fl, o.Has(fl))
	}
	if *charge >= 0 {
		o.ChargeMethod = scenario.ChargeMethod(*charge)
	}
	if *climate >= 0 {
		o.Climate = scenario.Climate(*climate)
	}
	return parkfile.WriteFile(path, f)
}

func cmdPreset(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("expected save, load, list or delete")
	}
	ctx := context.Background()
	st, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	sub, args := args[0], args[1:]
	switch sub {
	case "list":
		presets, err := st.ListPresets(ctx)
		if err != nil {
			return err
		}
		for _, p := range presets {
			fmt.Printf("%-24s %4d items  %s\n", p.Name, p.Items, p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("expected NAME")
		}
		return st.DeletePreset(ctx, args[0])
	case "save", "load":
		if len(args) != 2 {
			return fmt.Errorf("expected NAME FILE")
		}
	default:
		return fmt.Errorf("unknown preset command %q", sub)
	}

	name, path := args[0], args[1]
	f, err := parkfile.ReadFile(path)
	if err != nil {
		return err
	}
	if sub == "save" {
		if err := st.SavePreset(ctx, name, &f.Research); err != nil {
			return err
		}
		log.Printf("saved %d items as %q", f.Research.Len(), name)
		return nil
	}
	state, err := st.LoadPreset(ctx, name)
	if err != nil {
		return err
	}
	f.Research = *state
	log.Printf("loaded %d items from %q", state.Len(), name)
	return parkfile.WriteFile(path, f)
}

func cmdMapgen(args []string) error {
	def := mapgen.DefaultSettings()
	fs := flag.NewFlagSet("mapgen", flag.ExitOnError)
	algorithm := fs.String("algorithm", def.Algorithm.String(), "blank, simplex or heightmap")
	size := fs.Int("size", def.MapSize, "map size in tiles")
	height := fs.Int("height", def.Height, "base land height")
	water := fs.Int("water", def.WaterLevel, "water level")
	low := fs.Int("low", def.SimplexLow, "lowest generated height")
	high := fs.Int("high", def.SimplexHigh, "highest generated height")
	freq := fs.Float64("freq", def.SimplexBaseFreq, "simplex base frequency")
	octaves := fs.Int("octaves", def.SimplexOctaves, "simplex octaves")
	noTrees := fs.Bool("no-trees", false, "do not plant trees")
	noBeaches := fs.Bool("no-beaches", false, "do not add beaches")
	heightmapPath := fs.String("heightmap", "", "PNG height map for -algorithm=heightmap")
	blur := fs.Int("blur", 0, "height map blur passes")
	osmPath := fs.String("osm", "", "OpenStreetMap PBF extract to overlay")
	lat := fs.Float64("lat", 0, "latitude of the park centre")
	lon := fs.Float64("lon", 0, "longitude of the park centre")
	degrees := fs.Float64("degrees", 0.01, "size of the park in degrees")
	scale := fs.Int("scale", 4, "preview pixels per tile")
	out, err := oneArg(fs, args)
	if err != nil {
		return err
	}

	s := def
	s.Algorithm, err = mapgen.ParseAlgorithm(*algorithm)
	if err != nil {
		return err
	}
	s.MapSize, s.Height, s.WaterLevel = *size, *height, *water
	s.SimplexLow, s.SimplexHigh = *low, *high
	s.SimplexBaseFreq, s.SimplexOctaves = *freq, *octaves
	s.Trees, s.Beaches = !*noTrees, !*noBeaches
	if *blur > 0 {
		s.SmoothHeightmap, s.SmoothStrength = true, *blur
	}
	if s.Seed, err = newSeed(); err != nil {
		return err
	}

	var hm *mapgen.Heightmap
	if *heightmapPath != "" {
		in, err := os.Open(*heightmapPath)
		if err != nil {
			return err
		}
		hm, err = mapgen.LoadHeightmapImage(in)
		in.Close()
		if err != nil {
			return err
		}
	}
	m, err := mapgen.Generate(s, hm)
	if err != nil {
		return err
	}

	if *osmPath != "" {
		in, err := os.Open(*osmPath)
		if err != nil {
			return err
		}
		defer in.Close()
		stats, err := mapgen.ImportOSM(context.Background(), m, in, mapgen.BoundsAround(*lat, *lon, *degrees))
		if err != nil {
			return err
		}
		log.Printf("osm: %d nodes, %d trees, %d waterways, %d paths", stats.Nodes, stats.Trees, stats.WaterWays, stats.Paths)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, mapgen.Preview(m, *scale)); err != nil {
		f.Close()
		return err
	}
	log.Printf("wrote %dx%d %v map to %s", s.MapSize, s.MapSize, s.Algorithm, out)
	return f.Close()
}
