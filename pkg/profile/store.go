package profile

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/fatou/pkg/errors"
)

// Builtin starter profiles compiled into the binary. Files in the user's
// profile directory shadow builtins with the same name.
//
//go:embed builtin/*.toml
var builtinFS embed.FS

// Dir returns the default profile directory, ~/.config/fatou/profiles.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "fatou", "profiles"), nil
}

// Load reads the named profile from dir, falling back to the builtins.
func Load(dir, name string) (Profile, error) {
	if err := errors.ValidateProfileName(name); err != nil {
		return Profile{}, err
	}

	data, err := os.ReadFile(filepath.Join(dir, name+".toml"))
	if os.IsNotExist(err) {
		data, err = builtinFS.ReadFile("builtin/" + name + ".toml")
		if err != nil {
			return Profile{}, errors.New(errors.ErrCodeProfileNotFound, "no profile %q", name)
		}
	} else if err != nil {
		return Profile{}, err
	}

	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidProfile, err, "parsing profile %q", name)
	}
	p.Name = name
	if err := p.Validate(); err != nil {
		return Profile{}, errors.Wrap(errors.ErrCodeInvalidProfile, err, "profile %q", name)
	}
	return p, nil
}

// Save writes the profile to dir as <name>.toml, creating dir if needed.
func Save(dir string, p Profile) error {
	if err := errors.ValidateProfileName(p.Name); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProfile, err, "profile %q", p.Name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, p.Name+".toml"))
	if err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}

// Delete removes a saved profile. Builtins cannot be deleted.
func Delete(dir, name string) error {
	if err := errors.ValidateProfileName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(dir, name+".toml"))
	if os.IsNotExist(err) {
		if isBuiltin(name) {
			return errors.New(errors.ErrCodeInvalidProfile, "%q is a builtin profile", name)
		}
		return errors.New(errors.ErrCodeProfileNotFound, "no profile %q", name)
	}
	return err
}

// List returns all available profile names, builtins included, sorted.
func List(dir string) ([]string, error) {
	names := make(map[string]bool)

	builtins, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	for _, e := range builtins {
		names[strings.TrimSuffix(e.Name(), ".toml")] = true
	}

	files, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".toml" {
			continue
		}
		names[strings.TrimSuffix(f.Name(), ".toml")] = true
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return sorted, nil
}

func isBuiltin(name string) bool {
	_, err := builtinFS.ReadFile("builtin/" + name + ".toml")
	return err == nil
}
