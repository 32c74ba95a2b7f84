// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleSource is a small configuration exercising every construct the
// parser accepts: comments, headerless blocks with an id attribute, the desc
// alias, inheritance, nested blocks and signatures, including a signature
// collision resolved by the later part.
//
// Declaration order (Seq): avrisp, m328, usbasp, m328p, avrisp2, m328pb,
// m328-clone.
const SampleSource = `# sample programmer/part configuration

programmer "avrisp" {
    description = "Atmel AVR ISP";
    type = "stk500";
};

part "m328" {
    description = "ATmega328";
    signature = 0x1e 0x95 0x14;
    flash_size = 32768;
    memory "eeprom" {
        size = 1024;
        page_size = 4;
    };
};

programmer {
    id = "usbasp";
    desc = "USBasp, http://www.fischl.de/usbasp/";
    type = "usbasp";
    usbvid = 0x16C0;
};

part "m328p" {
    parent = "m328";
    description = "ATmega328P";
    signature = 0x1e 0x95 0x0f;
    memory "eeprom" {
        page_size = 8;
    };
};

programmer "avrisp2" {
    parent = "avrisp";
    description = "Atmel AVR ISP mkII";
};

part "m328pb" {
    parent = "m328p";
    description = "ATmega328PB";
    signature = 0x1e 0x95 0x16;
};

# shares m328's signature; declared later, so it owns the lookup
part "m328-clone" {
    parent = "m328";
    description = "ATmega328 clone";
};
`

// WriteSource writes src to a file in a per-test temporary directory and
// returns its path.
func WriteSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avrdude.conf")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}
