package circuit

import (
	"reflect"
	"testing"

	"github.com/twopc/gabes/config"
)

func TestSeparate(t *testing.T) {
	left, op, right, err := separate("(A AND B) AND (C AND D)")
	if err != nil {
		t.Fatalf("separate: %v", err)
	}
	if left != "A AND B" || op != "AND" || right != "C AND D" {
		t.Fatalf("got (%q, %q, %q)", left, op, right)
	}
}

func TestSeparateLeaf(t *testing.T) {
	left, op, right, err := separate("A AND B")
	if err != nil {
		t.Fatalf("separate: %v", err)
	}
	if left != "A" || op != "AND" || right != "B" {
		t.Fatalf("got (%q, %q, %q)", left, op, right)
	}
}

const simpleTwoCircuit = "((A AND B) AND (C XOR D)) AND (E XOR F)"

func TestLevelOrderOps(t *testing.T) {
	cfg, err := config.New(config.Classical, 16)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	c, err := Parse(cfg, simpleTwoCircuit)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := c.LevelOrderOps()
	want := []Op{AND, AND, XOR, AND, XOR}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInputIdentifiers(t *testing.T) {
	cfg, err := config.New(config.Classical, 16)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	c, err := Parse(cfg, simpleTwoCircuit)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := c.InputIdentifiers()
	want := []string{"A", "B", "C", "D", "E", "F"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDuplicateIdentifier(t *testing.T) {
	cfg, err := config.New(config.Classical, 16)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	if _, err := Parse(cfg, "A AND A"); err == nil {
		t.Fatal("expected error for duplicate identifier")
	}
}

func TestParseUnbalancedParens(t *testing.T) {
	cfg, err := config.New(config.Classical, 16)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	if _, err := Parse(cfg, "(A AND B"); err == nil {
		t.Fatal("expected error for unbalanced parens")
	}
}
