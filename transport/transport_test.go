package transport

import (
	"net"
	"reflect"
	"testing"

	"github.com/twopc/gabes/label"
)

func pipeConns() (*Conn, *Conn, func()) {
	a, b := net.Pipe()
	ca, cb := New(a), New(b)
	return ca, cb, func() {
		ca.Close()
		cb.Close()
	}
}

func TestSendReceive(t *testing.T) {
	ca, cb, closeFn := pipeConns()
	defer closeFn()

	want := []byte("hello, evaluator")
	done := make(chan error, 1)
	go func() { done <- ca.Send(want) }()

	got, err := cb.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAck(t *testing.T) {
	ca, cb, closeFn := pipeConns()
	defer closeFn()

	done := make(chan error, 1)
	go func() { done <- ca.SendAck() }()

	if err := cb.ReceiveAck(); err != nil {
		t.Fatalf("ReceiveAck: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("SendAck: %v", err)
	}
}

func TestAckRejectsOtherPayload(t *testing.T) {
	ca, cb, closeFn := pipeConns()
	defer closeFn()

	done := make(chan error, 1)
	go func() { done <- ca.Send([]byte("NACK")) }()

	if err := cb.ReceiveAck(); err == nil {
		t.Fatal("ReceiveAck: expected error for non-ACK payload")
	}
	<-done
}

func TestBool(t *testing.T) {
	for _, want := range []bool{true, false} {
		ca, cb, closeFn := pipeConns()

		done := make(chan error, 1)
		go func() { done <- ca.SendBool(want) }()

		got, err := cb.ReceiveBool()
		if err != nil {
			t.Fatalf("ReceiveBool: %v", err)
		}
		if err := <-done; err != nil {
			t.Fatalf("SendBool: %v", err)
		}
		if got != want {
			t.Fatalf("got %v, want %v", got, want)
		}
		closeFn()
	}
}

func TestIdentifiers(t *testing.T) {
	ca, cb, closeFn := pipeConns()
	defer closeFn()

	want := []string{"x1", "x2", "x3"}
	done := make(chan error, 1)
	go func() { done <- ca.SendIdentifiers(want) }()

	got, err := cb.ReceiveIdentifiers()
	if err != nil {
		t.Fatalf("ReceiveIdentifiers: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("SendIdentifiers: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLabelRoundTrip(t *testing.T) {
	l, err := label.NewRandom(16)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	l = l.WithPPBit(true)

	ca, cb, closeFn := pipeConns()
	defer closeFn()

	done := make(chan error, 1)
	go func() { done <- ca.SendLabel(l) }()

	got, err := cb.ReceiveLabel()
	if err != nil {
		t.Fatalf("ReceiveLabel: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("SendLabel: %v", err)
	}
	if !got.Equal(l) {
		t.Fatalf("got %s, want %s", got, l)
	}
	if got.PPBit == nil || *got.PPBit != true {
		t.Fatalf("PPBit not preserved: %+v", got)
	}
	if got.Represents != nil {
		t.Fatalf("Represents leaked across the wire: %+v", got)
	}
}

func TestOT(t *testing.T) {
	falseLabel, err := label.NewRandom(16)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	trueLabel, err := label.NewRandom(16)
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	w := &label.Wire{False: &falseLabel, True: &trueLabel}

	for _, bit := range []bool{false, true} {
		ca, cb, closeFn := pipeConns()

		done := make(chan error, 1)
		go func() { done <- ca.GarblerOT(w) }()

		got, err := cb.EvaluatorOT(bit)
		if err != nil {
			t.Fatalf("EvaluatorOT: %v", err)
		}
		if err := <-done; err != nil {
			t.Fatalf("GarblerOT: %v", err)
		}

		want := w.False
		if bit {
			want = w.True
		}
		if !got.Equal(*want) {
			t.Fatalf("bit=%v: got %s, want %s", bit, got, want)
		}
		closeFn()
	}
}
