package circuit

import (
	"fmt"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
	"github.com/twopc/gabes/symcrypt"
)

// ungarble applies op's boolean function to the left/right labels the
// evaluator actually holds, producing the output label, by dispatch
// on the active optimization (spec.md §4.5, "a single ungarble()
// mirrors that selection"). It takes just the op and table rather
// than a *Gate so both Gate (garbler-side, mid-construction) and
// SanitizedGate (evaluator-side, post-transport) can share it.
func ungarble(cfg config.Config, op Op, table [][]byte, left, right label.Label) (label.Label, error) {
	switch cfg.Optimization {
	case config.Classical:
		return ungarbleClassical(table, left, right)
	case config.PointAndPermute:
		return ungarblePointAndPermute(table, left, right)
	case config.GRR3:
		return ungarbleGRR3(cfg, table, left, right)
	case config.FreeXOR:
		if op == XOR {
			return ungarbleFreeXOR(left, right), nil
		}
		return ungarbleGRR3(cfg, table, left, right)
	case config.FleXOR:
		if op == XOR {
			return ungarbleFleXOR(cfg, table, left, right)
		}
		return ungarbleGRR3(cfg, table, left, right)
	case config.HalfGates:
		if op == AND {
			return ungarbleHalfGates(cfg, table, left, right)
		}
		return ungarbleFreeXOR(left, right), nil
	default:
		return label.Label{}, fmt.Errorf("circuit: ungarble: unknown optimization %v", cfg.Optimization)
	}
}

// Ungarble is the Gate-side entry point, used by tests and by any
// caller evaluating against the garbler's own in-memory tree rather
// than a transported SanitizedGate.
func (g *Gate) Ungarble(cfg config.Config, left, right label.Label) (label.Label, error) {
	return ungarble(cfg, g.Op, g.Table, left, right)
}

// Ungarble is the evaluator-side entry point, used during Reconstruct.
func (s *SanitizedGate) Ungarble(cfg config.Config, left, right label.Label) (label.Label, error) {
	return ungarble(cfg, s.Op, s.Table, left, right)
}

// ungarbleClassical implements spec.md §4.5(a)'s "try all four
// entries" ungarble. Per the Open Question decision recorded in
// SPEC_FULL.md, only the first entry that authenticates is kept — any
// further successful entry is ignored rather than overwriting it.
func ungarbleClassical(table [][]byte, left, right label.Label) (label.Label, error) {
	k1 := symcrypt.NewAuthCipher([]byte(left.Base64()))
	k2 := symcrypt.NewAuthCipher([]byte(right.Base64()))

	var found *label.Label
	for _, entry := range table {
		inner, ok, err := k1.Decrypt(entry)
		if err != nil {
			return label.Label{}, fmt.Errorf("circuit: classical ungarble: %w", err)
		}
		if !ok {
			continue
		}
		plain, ok, err := k2.Decrypt(inner)
		if err != nil {
			return label.Label{}, fmt.Errorf("circuit: classical ungarble: %w", err)
		}
		if !ok || found != nil {
			continue
		}
		l := label.FromBytes(plain)
		found = &l
	}
	if found == nil {
		return label.Label{}, fmt.Errorf("circuit: classical ungarble: no table entry authenticated")
	}
	return *found, nil
}

// ungarblePointAndPermute implements spec.md §4.5(b): single
// decryption at the index the received pp_bits name directly. The
// output label's own color bit travels inside the entry (see
// withPPByte/splitPPByte) since in this mode it is sampled independent
// of the label's bytes and so can't be recovered any other way.
func ungarblePointAndPermute(table [][]byte, left, right label.Label) (label.Label, error) {
	idx := 2*boolToInt(*left.PPBit) + boolToInt(*right.PPBit)
	plain, err := nestedBlockDecrypt(left, right, table[idx])
	if err != nil {
		return label.Label{}, fmt.Errorf("circuit: point-and-permute ungarble: %w", err)
	}
	out, err := splitPPByte(plain)
	if err != nil {
		return label.Label{}, fmt.Errorf("circuit: point-and-permute ungarble: %w", err)
	}
	return out, nil
}

// ungarbleGRR3 implements spec.md §4.5(c). It also serves as the
// fallthrough ungarbler for non-XOR gates under FreeXOR and FleXOR.
// The zero entry's color bit is always its own last byte (garbleGRR3
// defines it that way); the three transmitted entries carry their
// color bit explicitly, since the label they name may be the "other"
// output label, whose bit is unrelated to its own bytes.
func ungarbleGRR3(cfg config.Config, table [][]byte, left, right label.Label) (label.Label, error) {
	bL, bR := *left.PPBit, *right.PPBit
	if !bL && !bR {
		zeroBytes, err := symcrypt.GenerateZeroCiphertext(
			[]byte(left.Base64()), []byte(right.Base64()), cfg.NumBytes)
		if err != nil {
			return label.Label{}, fmt.Errorf("circuit: grr3 ungarble: %w", err)
		}
		out := label.FromBytes(zeroBytes)
		out.PPBit = ptrBool(out.Last())
		return out, nil
	}
	entry := table[2*boolToInt(bL)+boolToInt(bR)-1]
	plain, err := nestedBlockDecrypt(left, right, entry)
	if err != nil {
		return label.Label{}, fmt.Errorf("circuit: grr3 ungarble: %w", err)
	}
	out, err := splitPPByte(plain)
	if err != nil {
		return label.Label{}, fmt.Errorf("circuit: grr3 ungarble: %w", err)
	}
	return out, nil
}

// ungarbleFreeXOR implements spec.md §4.5(d)'s ungarble: the output
// label is simply the XOR of the two received labels, since the
// FreeXOR invariant makes that XOR land on C0 or C1 as appropriate.
func ungarbleFreeXOR(left, right label.Label) label.Label {
	out := label.Xor(left, right)
	out.PPBit = ptrBool(out.Last())
	return out
}

// ungarbleFleXOR implements spec.md §4.5(e)'s ungarble: each input
// label is first "transformed" via its table entry (or the all-zeros
// block, when that slot is empty), then combined via ungarbleFreeXOR.
func ungarbleFleXOR(cfg config.Config, table [][]byte, left, right label.Label) (label.Label, error) {
	leftIdx := boolToInt(*left.PPBit)
	rightIdx := 2 + boolToInt(*right.PPBit)

	leftTransformed, err := flexorTransform(left, tableEntry(table, leftIdx), cfg.NumBytes)
	if err != nil {
		return label.Label{}, fmt.Errorf("circuit: flexor ungarble: %w", err)
	}
	rightTransformed, err := flexorTransform(right, tableEntry(table, rightIdx), cfg.NumBytes)
	if err != nil {
		return label.Label{}, fmt.Errorf("circuit: flexor ungarble: %w", err)
	}
	return ungarbleFreeXOR(leftTransformed, rightTransformed), nil
}

// tableEntry returns table[idx], or nil when idx is out of range or
// the slot was never populated (an empty FleXOR table entry).
func tableEntry(table [][]byte, idx int) []byte {
	if idx < 0 || idx >= len(table) {
		return nil
	}
	return table[idx]
}

// flexorTransform decrypts entry (E_key^{-1}(entry)) under key's
// base64 form, falling back to E_key^{-1}(0) when entry is empty —
// the "falling back to the all-zeros block if that slot is empty"
// clause of spec.md §4.5(e).
func flexorTransform(key label.Label, entry []byte, numBytes int) (label.Label, error) {
	c, err := symcrypt.NewBlockCipher([]byte(key.Base64()))
	if err != nil {
		return label.Label{}, err
	}
	msg := entry
	if msg == nil {
		msg = make([]byte, numBytes)
	}
	plain, err := c.Decrypt(msg, false, false)
	if err != nil {
		return label.Label{}, err
	}
	return label.FromBytes(plain), nil
}

// ungarbleHalfGates implements spec.md §4.5(f)'s AND ungarble.
func ungarbleHalfGates(cfg config.Config, table [][]byte, a, b label.Label) (label.Label, error) {
	sa, sb := *a.PPBit, *b.PPBit

	cG := hashLabel(a.Bytes, cfg.NumBytes)
	if sa {
		cG = xorBytes(cG, table[0])
	}
	cE := hashLabel(b.Bytes, cfg.NumBytes)
	if sb {
		cE = xorBytes(cE, xorBytes(table[1], a.Bytes))
	}

	out := label.FromBytes(xorBytes(cG, cE))
	out.PPBit = ptrBool(out.Last())
	return out, nil
}

// nestedBlockDecrypt reverses nestedBlockEncrypt: undo the outer (k1)
// encryption first, then the inner (k2) one.
func nestedBlockDecrypt(left, right label.Label, entry []byte) ([]byte, error) {
	k1, err := symcrypt.NewBlockCipher([]byte(left.Base64()))
	if err != nil {
		return nil, err
	}
	k2, err := symcrypt.NewBlockCipher([]byte(right.Base64()))
	if err != nil {
		return nil, err
	}
	inner, err := k1.Decrypt(entry, false, true)
	if err != nil {
		return nil, err
	}
	return k2.Decrypt(inner, false, true)
}
