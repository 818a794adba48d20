package inspect

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"dartino/internal/config"
	"dartino/internal/logger"
	"dartino/pkg/color"
	"dartino/pkg/stack"
	"dartino/pkg/unicode"
)

// Inspector drives the CLI operations over the codec and stack packages.
type Inspector struct {
	Verbose    bool   // Enable verbose output
	NoColor    bool   // Disable colored output
	SourceFile string // Path to the input file
	OutputFile string // Path to the output file (transcode only)
	ConfigFile string // Path to dartino.toml
}

// loadConfig parses the config file when one was given, falling back
// to the defaults.
func (opts *Inspector) loadConfig() (*config.Config, error) {
	if opts.ConfigFile == "" {
		return config.Default(), nil
	}
	return config.Load(opts.ConfigFile)
}

// printLog returns the VM print interceptor named by the config, or
// nil when no log path is configured. A nil interceptor discards
// everything mirrored into it.
func printLog(cfg *config.Config) *logger.PrintInterceptor {
	if cfg.Log.Path == "" {
		return nil
	}
	return logger.NewPrintInterceptor(cfg.Log.Path)
}

// mirror reports an interceptor write failure without failing the
// operation that produced the message.
func mirror(err error) {
	if err != nil {
		log.Warn("Failed to append to print log", "error", err)
	}
}

// Transcode validates a UTF-8 file, decodes it to the VM's UTF-16 code
// unit form, and optionally writes the units out as UTF-16LE.
func (opts *Inspector) Transcode() error {
	log.Info("Processing file", "file", opts.SourceFile)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	intercept := printLog(cfg)

	input, err := os.ReadFile(opts.SourceFile)
	if err != nil {
		log.Fatal("Failed to read file", "file", opts.SourceFile, "error", err)
	}

	units, class, err := unicode.DecodeString(input)
	if err != nil {
		fmt.Println(color.BrightRedText("=== Invalid UTF-8 ==="))
		mirror(intercept.Error(fmt.Sprintf("invalid UTF-8 in %s: %v", opts.SourceFile, err)))
		return fmt.Errorf("decoding %s failed: %w", opts.SourceFile, err)
	}
	mirror(intercept.Out(fmt.Sprintf("transcoded %s: %d bytes to %d UTF-16 code units",
		opts.SourceFile, len(input), len(units))))

	if opts.Verbose {
		fmt.Println(color.GreenText("\n=== Transcoding Report ==="))
		fmt.Printf("%s: %s\n", color.CyanText("width class"), class)
		fmt.Printf("%s: %d\n", color.CyanText("UTF-8 bytes"), len(input))
		fmt.Printf("%s: %d\n", color.CyanText("UTF-16 code units"), len(units))
		fmt.Printf("%s: %d\n", color.CyanText("round-trip bytes"), unicode.StringUtf8Length(units))
	}

	if opts.OutputFile != "" {
		out := make([]byte, 2*len(units))
		for i, cu := range units {
			binary.LittleEndian.PutUint16(out[2*i:], cu)
		}
		if err := os.WriteFile(opts.OutputFile, out, 0o644); err != nil {
			return fmt.Errorf("writing %s failed: %w", opts.OutputFile, err)
		}
		log.Info("Wrote UTF-16LE output", "file", opts.OutputFile, "units", len(units))
	}

	return nil
}

// CodePoints lists the code points of a UTF-8 file, one per line,
// merging surrogate pairs the way the VM's string iterator does.
func (opts *Inspector) CodePoints() error {
	input, err := os.ReadFile(opts.SourceFile)
	if err != nil {
		log.Fatal("Failed to read file", "file", opts.SourceFile, "error", err)
	}

	units, _, err := unicode.DecodeString(input)
	if err != nil {
		return fmt.Errorf("decoding %s failed: %w", opts.SourceFile, err)
	}

	it := unicode.NewCodePointIterator(units)
	for it.Next() {
		ch := it.Current()
		fmt.Printf("%s %s\n",
			color.CyanText(fmt.Sprintf("%4d:", it.Index())),
			color.YellowText(fmt.Sprintf("U+%04X", ch)))
	}

	return nil
}

// DumpSnapshot loads a CBOR stack snapshot and prints its frame walk,
// symbolized through the function ranges in the config file when given.
func (opts *Inspector) DumpSnapshot() error {
	data, err := os.ReadFile(opts.SourceFile)
	if err != nil {
		log.Fatal("Failed to read file", "file", opts.SourceFile, "error", err)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	intercept := printLog(cfg)

	snap, err := stack.UnmarshalSnapshot(data)
	if err != nil {
		mirror(intercept.Error(fmt.Sprintf("unreadable snapshot %s: %v", opts.SourceFile, err)))
		return fmt.Errorf("reading snapshot %s failed: %w", opts.SourceFile, err)
	}
	s, err := snap.Stack()
	if err != nil {
		mirror(intercept.Error(fmt.Sprintf("invalid snapshot %s: %v", opts.SourceFile, err)))
		return fmt.Errorf("snapshot %s is not a valid stack: %w", opts.SourceFile, err)
	}

	var resolver stack.Resolver
	if rt := cfg.RangeTable(); rt != nil {
		resolver = rt
	}

	fmt.Println(color.GreenText("=== Stack Trace ==="))
	stack.Dump(os.Stdout, s, resolver)
	mirror(intercept.Out(fmt.Sprintf("dumped snapshot %s: %d occupied slots", opts.SourceFile, s.Top()+1)))
	return nil
}
