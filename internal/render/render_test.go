package render

import (
	"errors"
	"testing"
)

func TestWithReleasesOnSuccess(t *testing.T) {
	dev := &Fake{}
	err := With(dev, func() error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if dev.Acquires != 1 || dev.Releases != 1 || dev.Held != 0 {
		t.Errorf("acquire/release = %d/%d (held %d), want 1/1 (0)", dev.Acquires, dev.Releases, dev.Held)
	}
}

func TestWithReleasesOnError(t *testing.T) {
	dev := &Fake{}
	wantErr := errors.New("teardown failed")
	if err := With(dev, func() error { return wantErr }); err != wantErr {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if dev.Held != 0 {
		t.Errorf("context still held after error path: %d", dev.Held)
	}
}

func TestWithReleasesOnPanic(t *testing.T) {
	dev := &Fake{}
	func() {
		defer func() { recover() }()
		With(dev, func() error { panic("boom") })
	}()
	if dev.Held != 0 {
		t.Errorf("context still held after panic: %d", dev.Held)
	}
}

func TestWithPropagatesAcquireFailure(t *testing.T) {
	dev := &Fake{FailNext: true}
	ran := false
	if err := With(dev, func() error { ran = true; return nil }); err == nil {
		t.Fatal("acquire failure not surfaced")
	}
	if ran {
		t.Error("body ran without the context held")
	}
	if dev.Releases != 0 {
		t.Error("release without matching acquire")
	}
}

func TestImageDestroyRequiresBracket(t *testing.T) {
	dev := &Fake{}
	img, err := dev.CreateImage(16, 16, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := img.Destroy(); err == nil {
		t.Error("destroy outside a bracket should fail on the fake device")
	}
	if err := With(dev, img.Destroy); err != nil {
		t.Errorf("destroy inside the bracket failed: %v", err)
	}
}

func TestDefaultOpenHasNoDevice(t *testing.T) {
	if _, err := Open(nil); !errors.Is(err, ErrNoDevice) {
		t.Errorf("default Open err = %v, want ErrNoDevice", err)
	}
}
