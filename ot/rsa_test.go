package ot

import (
	"bytes"
	"testing"
)

func roundTrip(t *testing.T, keyBits int, bit uint) {
	t.Helper()

	m0 := []byte("message-zero-payload")
	m1 := []byte("message-one-payload-")

	sender, err := NewSender(keyBits)
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	xfer, err := sender.NewTransfer(m0, m1)
	if err != nil {
		t.Fatalf("NewTransfer: %v", err)
	}

	receiver := NewReceiver(sender.PublicKey())
	rxfer := receiver.NewTransfer(bit)

	x0, x1 := xfer.RandomMessages()
	if err := rxfer.ReceiveRandomMessages(x0, x1); err != nil {
		t.Fatalf("ReceiveRandomMessages: %v", err)
	}

	xfer.ReceiveV(rxfer.V())

	m0p, m1p, err := xfer.Messages()
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if err := rxfer.ReceiveMessages(m0p, m1p); err != nil {
		t.Fatalf("ReceiveMessages: %v", err)
	}

	got, gotBit := rxfer.Message()
	if gotBit != bit {
		t.Fatalf("got bit %d, want %d", gotBit, bit)
	}
	want := m0
	if bit == 1 {
		want = m1
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("transferred message = %q, want %q", got, want)
	}
}

func TestRoundTripBit0(t *testing.T) {
	roundTrip(t, 1024, 0)
}

func TestRoundTripBit1(t *testing.T) {
	roundTrip(t, 1024, 1)
}

func BenchmarkOT512(b *testing.B) {
	benchmarkTransfer(b, 512)
}

func BenchmarkOT1024(b *testing.B) {
	benchmarkTransfer(b, 1024)
}

func benchmarkTransfer(b *testing.B, keyBits int) {
	m0 := []byte{'M', 's', 'g', '0'}
	m1 := []byte{'1', 'g', 's', 'M'}

	sender, err := NewSender(keyBits)
	if err != nil {
		b.Fatal(err)
	}
	receiver := NewReceiver(sender.PublicKey())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		xfer, err := sender.NewTransfer(m0, m1)
		if err != nil {
			b.Fatal(err)
		}
		rxfer := receiver.NewTransfer(0)

		x0, x1 := xfer.RandomMessages()
		if err := rxfer.ReceiveRandomMessages(x0, x1); err != nil {
			b.Fatal(err)
		}
		xfer.ReceiveV(rxfer.V())

		m0p, m1p, err := xfer.Messages()
		if err != nil {
			b.Fatal(err)
		}
		if err := rxfer.ReceiveMessages(m0p, m1p); err != nil {
			b.Fatal(err)
		}
	}
}
