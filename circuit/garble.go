package circuit

import (
	cryptorand "crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
	"github.com/twopc/gabes/symcrypt"
)

// hashLabel implements H(x) := SHA-256(x) truncated/extended to
// numBytes, spec.md §4.5(f)'s half-gates hash.
func hashLabel(x []byte, numBytes int) []byte {
	sum := sha256.Sum256(x)
	out := make([]byte, numBytes)
	copy(out, sum[:])
	return out
}

// Garble fills in g.Table, and mutates g.Output's labels where the
// active optimization derives them from the inputs rather than
// sampling them independently (GRR3's zero entry, FreeXOR, FleXOR,
// half-gates), per the dispatch spec.md §4.5 describes. Both child
// gates, if any, must already be garbled: a non-leaf gate's Left/Right
// wires alias the children's (possibly just-mutated) Output wires.
func (g *Gate) Garble(cfg config.Config) error {
	switch cfg.Optimization {
	case config.Classical:
		return g.garbleClassical()
	case config.PointAndPermute:
		return g.garblePointAndPermute()
	case config.GRR3:
		return g.garbleGRR3(cfg)
	case config.FreeXOR:
		if g.Op == XOR {
			return g.garbleFreeXOR(cfg)
		}
		return g.garbleGRR3(cfg)
	case config.FleXOR:
		if g.Op == XOR {
			return g.garbleFleXOR(cfg)
		}
		return g.garbleGRR3(cfg)
	case config.HalfGates:
		if g.Op == AND {
			return g.garbleHalfGates(cfg)
		}
		return g.garbleFreeXOR(cfg)
	default:
		return fmt.Errorf("circuit: garble: unknown optimization %v", cfg.Optimization)
	}
}

func ptrBool(b bool) *bool { return &b }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// withPPByte appends pp's value as a trailing 0/1 byte to bytes, so a
// table-entry payload can carry an output label's color bit alongside
// its value — needed wherever that bit isn't recoverable from the
// label's own bytes (see splitPPByte).
func withPPByte(bytes []byte, pp bool) []byte {
	return append(append([]byte{}, bytes...), byte(boolToInt(pp)))
}

// splitPPByte reverses withPPByte: the last byte is the color bit, the
// rest is the label's bytes.
func splitPPByte(plain []byte) (label.Label, error) {
	if len(plain) == 0 {
		return label.Label{}, fmt.Errorf("circuit: splitPPByte: empty payload")
	}
	n := len(plain) - 1
	out := label.FromBytes(plain[:n])
	out.PPBit = ptrBool(plain[n] != 0)
	return out, nil
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// cryptoShuffle performs an in-place Fisher-Yates shuffle using
// crypto/rand, per spec.md §4.8's requirement that the table shuffle
// be cryptographically uniform.
func cryptoShuffle(x [][]byte) error {
	for i := len(x) - 1; i > 0; i-- {
		n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := int(n.Int64())
		x[i], x[j] = x[j], x[i]
	}
	return nil
}

// garbleClassical implements spec.md §4.5(a): all 4 entries,
// authenticated cipher, shuffled.
func (g *Gate) garbleClassical() error {
	entries := make([][]byte, 0, 4)
	for _, bL := range [2]bool{false, true} {
		for _, bR := range [2]bool{false, true} {
			leftLabel := g.Left.Get(bL)
			rightLabel := g.Right.Get(bR)
			outputLabel := g.Output.Get(g.Op.Evaluate(bL, bR))

			k1 := symcrypt.NewAuthCipher([]byte(leftLabel.Base64()))
			k2 := symcrypt.NewAuthCipher([]byte(rightLabel.Base64()))
			inner, err := k2.Encrypt(outputLabel.Bytes)
			if err != nil {
				return fmt.Errorf("circuit: classical garble: %w", err)
			}
			entry, err := k1.Encrypt(inner)
			if err != nil {
				return fmt.Errorf("circuit: classical garble: %w", err)
			}
			entries = append(entries, entry)
		}
	}
	if err := cryptoShuffle(entries); err != nil {
		return fmt.Errorf("circuit: classical garble: shuffle: %w", err)
	}
	g.Table = entries
	return nil
}

// garblePointAndPermute implements spec.md §4.5(b): 4 entries indexed
// by pp_bit pair, unauthenticated cipher. Each entry carries its
// output label's color bit alongside its bytes (withPPByte), since in
// this mode the bit is sampled independent of the bytes at wire
// creation and the evaluator has no other way to recover it.
func (g *Gate) garblePointAndPermute() error {
	table := make([][]byte, 4)
	for _, bL := range [2]bool{false, true} {
		for _, bR := range [2]bool{false, true} {
			leftLabel := g.Left.Get(bL)
			rightLabel := g.Right.Get(bR)
			outputLabel := g.Output.Get(g.Op.Evaluate(bL, bR))

			entry, err := nestedBlockEncrypt(leftLabel, rightLabel, withPPByte(outputLabel.Bytes, *outputLabel.PPBit))
			if err != nil {
				return fmt.Errorf("circuit: point-and-permute garble: %w", err)
			}
			idx := 2*boolToInt(*leftLabel.PPBit) + boolToInt(*rightLabel.PPBit)
			table[idx] = entry
		}
	}
	g.Table = table
	return nil
}

// garbleGRR3 implements spec.md §4.5(c). It also serves as the
// fallthrough garbler for non-XOR gates under FreeXOR and FleXOR.
func (g *Gate) garbleGRR3(cfg config.Config) error {
	l0 := g.Left.ZeroPPLabel()
	r0 := g.Right.ZeroPPLabel()
	zeroBytes, err := symcrypt.GenerateZeroCiphertext(
		[]byte(l0.Base64()), []byte(r0.Base64()), cfg.NumBytes)
	if err != nil {
		return fmt.Errorf("circuit: grr3 garble: %w", err)
	}

	outVal := g.Op.Evaluate(*l0.Represents, *r0.Represents)
	target := g.Output.Get(outVal)
	target.Bytes = zeroBytes
	b := target.Last()
	target.PPBit = ptrBool(b)
	g.Output.Get(!outVal).PPBit = ptrBool(!b)
	if cfg.Optimization.UsesFreeXOR() {
		g.Output.Get(!outVal).Bytes = xorBytes(zeroBytes, cfg.R)
	}

	table := make([][]byte, 3)
	for _, leftLabel := range [2]*label.Label{g.Left.False, g.Left.True} {
		for _, rightLabel := range [2]*label.Label{g.Right.False, g.Right.True} {
			bL, bR := *leftLabel.PPBit, *rightLabel.PPBit
			if !bL && !bR {
				continue
			}
			outputLabel := g.Output.Get(g.Op.Evaluate(*leftLabel.Represents, *rightLabel.Represents))
			entry, err := nestedBlockEncrypt(leftLabel, rightLabel, withPPByte(outputLabel.Bytes, *outputLabel.PPBit))
			if err != nil {
				return fmt.Errorf("circuit: grr3 garble: %w", err)
			}
			table[2*boolToInt(bL)+boolToInt(bR)-1] = entry
		}
	}
	g.Table = table
	return nil
}

// garbleFreeXOR implements spec.md §4.5(d)'s XOR case; it also serves
// as half-gates' fallthrough for XOR gates, since half-gates shares
// FreeXOR's R.
func (g *Gate) garbleFreeXOR(cfg config.Config) error {
	c0 := xorBytes(g.Left.False.Bytes, g.Right.False.Bytes)
	g.Output.False.Bytes = c0
	g.Output.RecomputeFreeXOR(cfg)
	g.Table = nil
	return nil
}

// garbleFleXOR implements spec.md §4.5(e).
func (g *Gate) garbleFleXOR(cfg config.Config) error {
	for g.Output.False.Last() == g.Output.True.Last() {
		fresh, err := label.NewRandom(cfg.NumBytes)
		if err != nil {
			return fmt.Errorf("circuit: flexor garble: %w", err)
		}
		fresh = fresh.WithRepresents(true)
		g.Output.True = &fresh
	}

	a0 := g.Left.False.Bytes
	b0 := g.Right.False.Bytes
	c0, c1 := g.Output.False.Bytes, g.Output.True.Bytes

	r1 := xorBytes(a0, g.Left.True.Bytes)
	r2 := xorBytes(b0, g.Right.True.Bytes)
	r3 := xorBytes(c0, c1)

	a0prime, err := decryptZeroUnpadded(g.Left.False, cfg.NumBytes)
	if err != nil {
		return fmt.Errorf("circuit: flexor garble: %w", err)
	}
	b0prime, err := decryptZeroUnpadded(g.Right.False, cfg.NumBytes)
	if err != nil {
		return fmt.Errorf("circuit: flexor garble: %w", err)
	}

	c0prime := xorBytes(a0prime, b0prime)
	c1prime := xorBytes(c0prime, r3)
	a1prime := xorBytes(a0prime, r3)
	b1prime := xorBytes(b0prime, r3)

	g.Output.False.Bytes = c0prime
	g.Output.True.Bytes = c1prime
	g.Output.False.PPBit = ptrBool(g.Output.False.Last())
	g.Output.True.PPBit = ptrBool(g.Output.True.Last())

	table := make([][]byte, 4)
	r1EqR3 := bytesEqual(r1, r3)
	r2EqR3 := bytesEqual(r2, r3)
	switch {
	case r1EqR3 && r2EqR3:
		// Degenerates to FreeXOR: empty table.
	case r1EqR3 && !r2EqR3:
		entry, err := encryptUnpadded(g.Right.True, b1prime)
		if err != nil {
			return fmt.Errorf("circuit: flexor garble: %w", err)
		}
		table[2+boolToInt(*g.Right.True.PPBit)] = entry
	case r2EqR3 && !r1EqR3:
		entry, err := encryptUnpadded(g.Left.True, a1prime)
		if err != nil {
			return fmt.Errorf("circuit: flexor garble: %w", err)
		}
		table[boolToInt(*g.Left.True.PPBit)] = entry
	default:
		entryB, err := encryptUnpadded(g.Right.True, b1prime)
		if err != nil {
			return fmt.Errorf("circuit: flexor garble: %w", err)
		}
		table[2+boolToInt(*g.Right.True.PPBit)] = entryB
		entryA, err := encryptUnpadded(g.Left.True, a1prime)
		if err != nil {
			return fmt.Errorf("circuit: flexor garble: %w", err)
		}
		table[boolToInt(*g.Left.True.PPBit)] = entryA
	}
	g.Table = table
	return nil
}

// garbleHalfGates implements spec.md §4.5(f), AND gates only.
func (g *Gate) garbleHalfGates(cfg config.Config) error {
	a0, a1 := g.Left.False.Bytes, g.Left.True.Bytes
	b0, b1 := g.Right.False.Bytes, g.Right.True.Bytes
	pa := *g.Left.False.PPBit
	pb := *g.Right.False.PPBit

	hA0 := hashLabel(a0, cfg.NumBytes)
	hA1 := hashLabel(a1, cfg.NumBytes)
	hB0 := hashLabel(b0, cfg.NumBytes)
	hB1 := hashLabel(b1, cfg.NumBytes)

	entry1 := xorBytes(hA0, hA1)
	if pb {
		entry1 = xorBytes(entry1, cfg.R)
	}
	cG := hA0
	if pa {
		cG = xorBytes(cG, entry1)
	}

	entry2 := xorBytes(xorBytes(hB0, hB1), a0)
	cE := hB0
	if pb {
		cE = xorBytes(cE, xorBytes(entry2, a0))
	}

	out := xorBytes(cG, cE)
	g.Output.False.Bytes = out
	g.Output.RecomputeFreeXOR(cfg)
	g.Table = [][]byte{entry1, entry2}
	return nil
}

// nestedBlockEncrypt implements the entry := E_{k1}(E_{k2}(msg))
// nesting spec.md §4.5 uses for point-and-permute and GRR3, with key
// material always derived from the base64 form of the label bytes —
// the same convention GenerateZeroCiphertext and classical garbling
// use.
func nestedBlockEncrypt(leftLabel, rightLabel *label.Label, msg []byte) ([]byte, error) {
	k1, err := symcrypt.NewBlockCipher([]byte(leftLabel.Base64()))
	if err != nil {
		return nil, err
	}
	k2, err := symcrypt.NewBlockCipher([]byte(rightLabel.Base64()))
	if err != nil {
		return nil, err
	}
	inner, err := k2.Encrypt(msg, true, false)
	if err != nil {
		return nil, err
	}
	return k1.Encrypt(inner, true, false)
}

// decryptZeroUnpadded computes E_key^{-1}(0): an unpadded decryption
// of the all-zeros numBytes block, keyed by key's base64 form.
func decryptZeroUnpadded(key *label.Label, numBytes int) ([]byte, error) {
	c, err := symcrypt.NewBlockCipher([]byte(key.Base64()))
	if err != nil {
		return nil, err
	}
	return c.Decrypt(make([]byte, numBytes), false, false)
}

// encryptUnpadded computes E_key(msg), keyed by key's base64 form,
// with no size-prefix padding (msg is already exactly numBytes wide).
func encryptUnpadded(key *label.Label, msg []byte) ([]byte, error) {
	c, err := symcrypt.NewBlockCipher([]byte(key.Base64()))
	if err != nil {
		return nil, err
	}
	return c.Encrypt(msg, false, false)
}
