package config

import (
	"testing"
)

func TestInitialize(t *testing.T) {
	Set(nil)
	t.Cleanup(func() { Set(nil) })

	path := writeConfig(t, t.TempDir(), "extension: .one\n")
	cfg, err := Initialize(path)
	if err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}
	if Get() != cfg || MustGet().Extension != ".one" {
		t.Errorf("Get() = %+v", Get())
	}
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	Set(nil)
	t.Cleanup(func() { Set(nil) })

	dir := t.TempDir()
	path := writeConfig(t, dir, "extension: .one\n")
	if _, err := Initialize(path); err != nil {
		t.Fatal(err)
	}

	writeConfig(t, dir, "extension: two\n")
	if err := Reload(path); err == nil {
		t.Fatal("Reload() accepted an invalid configuration")
	}
	if Get().Extension != ".one" {
		t.Errorf("previous configuration lost: %+v", Get())
	}

	writeConfig(t, dir, "extension: .two\n")
	if err := Reload(path); err != nil {
		t.Fatal(err)
	}
	if Get().Extension != ".two" {
		t.Errorf("Extension = %q after reload", Get().Extension)
	}
}

func TestMustGet_Panics(t *testing.T) {
	Set(nil)
	defer func() {
		if recover() == nil {
			t.Error("MustGet() did not panic")
		}
	}()
	MustGet()
}
