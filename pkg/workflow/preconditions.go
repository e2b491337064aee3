package workflow

import "os"

// VerifyPreconditions checks the server symlink state before a built-in
// workflow spawns anything: a fresh install must not clobber an existing
// deployment, and an upgrade needs one to upgrade.
func VerifyPreconditions(mode string, p Parameters) error {
	_, err := os.Lstat(p.Sym)
	exists := err == nil

	switch mode {
	case ModeInstall:
		if exists {
			return NewConfigurationError("symlink already exists: %s", p.Sym)
		}
	case ModeUpgrade:
		if !exists {
			return NewConfigurationError("symlink is missing: %s", p.Sym)
		}
	}
	return nil
}
