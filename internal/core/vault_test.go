package core

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/illarion/vaultic/internal/crypto"
	"github.com/illarion/vaultic/internal/paths"
	"github.com/illarion/vaultic/internal/storage"
)

func openVault(t *testing.T, loc paths.Locations, passphrase string) *Vault {
	t.Helper()
	v, err := New([]byte(passphrase), loc)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func TestNewCreatesDirectoryAndSalt(t *testing.T) {
	loc := paths.FromDir(filepath.Join(t.TempDir(), "profile"))
	openVault(t, loc, "hunter2")

	info, err := os.Stat(loc.Dir)
	if err != nil {
		t.Fatalf("vault directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("vault directory is not a directory")
	}

	salt, err := os.ReadFile(loc.SaltFile)
	if err != nil {
		t.Fatalf("salt file not created: %v", err)
	}
	if len(salt) != crypto.SaltSize {
		t.Errorf("salt length = %d, want %d", len(salt), crypto.SaltSize)
	}

	if _, err := os.Stat(loc.VaultFile); !os.IsNotExist(err) {
		t.Error("vault file should not exist before the first write")
	}
}

func TestNewPathError(t *testing.T) {
	base := t.TempDir()

	// A regular file where the directory should be
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := New([]byte("pw"), paths.FromDir(filepath.Join(blocker, "profile")))
	if KindOf(err) != KindPath {
		t.Errorf("expected KindPath, got %v (%v)", KindOf(err), err)
	}
}

func TestEndToEnd(t *testing.T) {
	loc := paths.FromDir(t.TempDir())

	v := openVault(t, loc, "hunter2")
	if err := v.AddEntry("GitHub", "p@ss1"); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	// Fresh handle, same passphrase
	v2 := openVault(t, loc, "hunter2")
	e, ok, err := v2.GetEntry("github")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if !ok {
		t.Fatal("github entry not found")
	}
	if e.Password != "p@ss1" {
		t.Errorf("Password = %q, want p@ss1", e.Password)
	}

	// Wrong passphrase
	wrong := openVault(t, loc, "wrong")
	err = wrong.VerifyPassphrase()
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if KindOf(err) != KindAuthentication {
		t.Errorf("expected KindAuthentication, got %v", KindOf(err))
	}
}

func TestNormalization(t *testing.T) {
	v := openVault(t, paths.FromDir(t.TempDir()), "pw")

	if err := v.AddEntry("GMail ", "x"); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	e, ok, err := v.GetEntry("gmail")
	if err != nil || !ok {
		t.Fatalf("GetEntry: ok=%v err=%v", ok, err)
	}
	if e.Password != "x" {
		t.Errorf("Password = %q, want x", e.Password)
	}

	if err := v.AddEntry("gmail", "y"); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	e, _, err = v.GetEntry("  GMAIL")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if e.Password != "y" {
		t.Errorf("Password = %q, want y", e.Password)
	}

	services, err := v.ListServices()
	if err != nil {
		t.Fatalf("ListServices failed: %v", err)
	}
	if !slices.Equal(services, []string{"gmail"}) {
		t.Errorf("ListServices() = %v, want [gmail]", services)
	}
}

func TestNormalizeService(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GMail ", "gmail"},
		{"\tGitHub\n", "github"},
		{"already", "already"},
		{"ÉCOLE", "école"},
		{"ΣΊΣΥΦΟΣ", "σίσυφος"},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeService(tt.in); got != tt.want {
			t.Errorf("NormalizeService(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListServicesSortedUnique(t *testing.T) {
	v := openVault(t, paths.FromDir(t.TempDir()), "pw")

	for _, s := range []string{"Zoom", "aws", "Bank", "AWS ", "mail"} {
		if err := v.AddEntry(s, "secret"); err != nil {
			t.Fatalf("AddEntry(%q) failed: %v", s, err)
		}
	}

	services, err := v.ListServices()
	if err != nil {
		t.Fatalf("ListServices failed: %v", err)
	}

	want := []string{"aws", "bank", "mail", "zoom"}
	if !slices.Equal(services, want) {
		t.Errorf("ListServices() = %v, want %v", services, want)
	}
	for i := 1; i < len(services); i++ {
		if services[i-1] >= services[i] {
			t.Errorf("not strictly ascending at %d: %v", i, services)
		}
	}
}

func TestGetEntryMissing(t *testing.T) {
	v := openVault(t, paths.FromDir(t.TempDir()), "pw")

	if err := v.AddEntry("github", "x"); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	_, ok, err := v.GetEntry("gitlab")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if ok {
		t.Error("gitlab should not be found")
	}
}

func TestRemoveEntry(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	if err := v.AddEntry("github", "x"); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	removed, err := v.RemoveEntry(" GitHub")
	if err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}
	if !removed {
		t.Error("RemoveEntry should report the entry existed")
	}

	removed, err = v.RemoveEntry("github")
	if err != nil {
		t.Fatalf("RemoveEntry failed: %v", err)
	}
	if removed {
		t.Error("RemoveEntry should report nothing removed")
	}

	services, err := v.ListServices()
	if err != nil {
		t.Fatalf("ListServices failed: %v", err)
	}
	if len(services) != 0 {
		t.Errorf("expected no services, got %v", services)
	}
}

func TestAddEntryRejectsInvalidUTF8(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	if err := v.AddEntry("github", "x"); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	before, err := os.ReadFile(loc.VaultFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	tests := []struct {
		name    string
		service string
		secret  string
	}{
		{"bad secret", "svc", "p\xffw\xc3"},
		{"bad service", "a\xffb", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.AddEntry(tt.service, tt.secret)
			if !errors.Is(err, ErrInvalidUTF8) {
				t.Errorf("expected ErrInvalidUTF8, got %v", err)
			}
			if KindOf(err) != KindInvalidEntry {
				t.Errorf("KindOf() = %v, want %v", KindOf(err), KindInvalidEntry)
			}
		})
	}

	after, err := os.ReadFile(loc.VaultFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("rejected entries must not rewrite the vault")
	}

	services, err := v.ListServices()
	if err != nil {
		t.Fatalf("ListServices failed: %v", err)
	}
	if !slices.Equal(services, []string{"github"}) {
		t.Errorf("ListServices() = %v, want [github]", services)
	}
}

func TestSecretRoundTripsExactly(t *testing.T) {
	v := openVault(t, paths.FromDir(t.TempDir()), "pw")

	secret := "p\u00e4ss <&> \"quoted\" \u2028 \U0001F511"
	if err := v.AddEntry("svc", secret); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}
	e, ok, err := v.GetEntry("svc")
	if err != nil || !ok {
		t.Fatalf("GetEntry: ok=%v err=%v", ok, err)
	}
	if e.Password != secret {
		t.Errorf("Password = %q, want %q", e.Password, secret)
	}
}

func TestVerifyPassphraseMissingVault(t *testing.T) {
	loc := paths.FromDir(t.TempDir())

	for _, pw := range []string{"hunter2", "wrong", ""} {
		v := openVault(t, loc, pw)
		if err := v.VerifyPassphrase(); err != nil {
			t.Errorf("VerifyPassphrase(%q) on missing vault: %v", pw, err)
		}
	}
}

func TestReadMissingVaultIsEmpty(t *testing.T) {
	v := openVault(t, paths.FromDir(t.TempDir()), "pw")

	doc, err := v.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(doc.Entries) != 0 {
		t.Errorf("expected empty document, got %v", doc.Entries)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	doc := storage.NewDocument()
	doc.Put("a", "1")
	doc.Put("b", "two words")
	if err := v.Write(doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := openVault(t, loc, "pw").Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !slices.Equal(got.Services(), []string{"a", "b"}) {
		t.Errorf("Services() = %v", got.Services())
	}
	if e, _ := got.Get("b"); e.Password != "two words" {
		t.Errorf("Password = %q", e.Password)
	}
}

func TestVaultFileLayout(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	if err := v.AddEntry("github", "x"); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	blob, err := os.ReadFile(loc.VaultFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	plaintext := `{"entries":{"github":{"password":"x"}}}`
	if len(blob) != crypto.NonceSize+len(plaintext)+crypto.TagSize {
		t.Errorf("blob length = %d, want %d", len(blob), crypto.NonceSize+len(plaintext)+crypto.TagSize)
	}
	if bytes.Contains(blob, []byte("github")) {
		t.Error("vault file contains plaintext service name")
	}
}

func TestEachWriteUsesFreshNonce(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	doc := storage.NewDocument()
	doc.Put("a", "1")

	if err := v.Write(doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	first, _ := os.ReadFile(loc.VaultFile)

	if err := v.Write(doc); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	second, _ := os.ReadFile(loc.VaultFile)

	if bytes.Equal(first[:crypto.NonceSize], second[:crypto.NonceSize]) {
		t.Error("nonce reused across writes")
	}
}

func TestMalformedVault(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	if err := os.WriteFile(loc.VaultFile, []byte("short"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	err := v.VerifyPassphrase()
	if !errors.Is(err, ErrMalformedBlob) {
		t.Errorf("expected ErrMalformedBlob, got %v", err)
	}
	if KindOf(err) != KindMalformedBlob {
		t.Errorf("expected KindMalformedBlob, got %v", KindOf(err))
	}
}

func TestTamperedVault(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	if err := v.AddEntry("github", "x"); err != nil {
		t.Fatalf("AddEntry failed: %v", err)
	}

	blob, err := os.ReadFile(loc.VaultFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	blob[len(blob)/2] ^= 0x01
	if err := os.WriteFile(loc.VaultFile, blob, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Corruption looks exactly like a wrong passphrase
	if _, _, err := v.GetEntry("github"); KindOf(err) != KindAuthentication {
		t.Errorf("expected KindAuthentication, got %v", err)
	}
}

func TestDeserializationError(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	// Valid ciphertext under the right key, but not a document
	blob, err := v.enc.Encrypt([]byte("not json"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if err := os.WriteFile(loc.VaultFile, blob, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err = v.ListServices()
	if !errors.Is(err, ErrDeserialization) {
		t.Errorf("expected ErrDeserialization, got %v", err)
	}
	if KindOf(err) != KindDeserialization {
		t.Errorf("expected KindDeserialization, got %v", KindOf(err))
	}
}

func TestFailedReadDoesNotWrite(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	openVault(t, loc, "hunter2").AddEntry("github", "x")

	before, err := os.ReadFile(loc.VaultFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	wrong := openVault(t, loc, "wrong")
	if err := wrong.AddEntry("gitlab", "y"); KindOf(err) != KindAuthentication {
		t.Fatalf("expected KindAuthentication, got %v", err)
	}

	after, err := os.ReadFile(loc.VaultFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("vault file changed after a failed AddEntry")
	}
}

func TestPythonCompatibleDocument(t *testing.T) {
	loc := paths.FromDir(t.TempDir())
	v := openVault(t, loc, "pw")

	// Layout written by json.dumps in the earlier tool
	blob, err := v.enc.Encrypt([]byte(`{"entries": {"gmail": {"password": "x"}}}`))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if err := os.WriteFile(loc.VaultFile, blob, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	e, ok, err := v.GetEntry("Gmail")
	if err != nil || !ok {
		t.Fatalf("GetEntry: ok=%v err=%v", ok, err)
	}
	if e.Password != "x" {
		t.Errorf("Password = %q, want x", e.Password)
	}
}

func TestClosedVault(t *testing.T) {
	v, err := New([]byte("pw"), paths.FromDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v.Close()

	if _, err := v.Read(); err == nil {
		t.Error("Read on closed vault should fail")
	}
	if err := v.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
