// Package parser turns configuration source text into an ordered list of raw
// ir.ConfigEntry values.
//
// The format is a sequence of programmer and part blocks:
//
//	# comment to end of line
//	programmer "avrisp" {
//	    description = "Atmel AVR ISP";
//	    baudrate = 115200;
//	}
//
//	part "atmega328p" {
//	    description = "ATmega328P";
//	    signature = 0x1e 0x95 0x0f;
//	    memory "flash" { size = 32768; page_size = 128; }
//	}
//
//	part "atmega328pb" { parent = "atmega328p"; description = "ATmega328PB"; }
//
// Numbers may be written in decimal, hexadecimal (0x), octal (leading 0 or
// 0o) or binary (0b). Byte sequences are only accepted for the signature
// attribute of a part, outside nested blocks, and must contain exactly three bytes. A headerless block may name
// itself with id = "...". The alias desc is read as description.
//
// Parsing is all-or-nothing: on error no entries are returned and the error is
// a *ParseError carrying the line and column of the offending token.
package parser
