package cmd

import (
	"context"
	"fmt"

	"github.com/live-labs/labkey/internal/core"
	"github.com/live-labs/labkey/internal/crypto"
	"github.com/live-labs/labkey/internal/keyring"
)

// KeyringSave stores the encryption password in the OS keyring, keyed by
// the registry's vault ID. The password is verified by confirmation prompt
// unless it came from an argument or the environment.
func KeyringSave(ctx context.Context, passwordArg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l, err := openLabKey()
	if err != nil {
		return err
	}
	defer l.Close()

	vaultID, err := l.VaultID()
	if err != nil {
		return err
	}

	password := []byte(passwordArg)
	if len(password) == 0 {
		password = core.GetPasswordFromEnv()
	}
	if len(password) == 0 {
		password, err = core.ReadPasswordConfirm("Enter password to store: ")
		if err != nil {
			return err
		}
	}
	defer crypto.ClearBytes(password)

	if err := keyring.SavePassword(vaultID, string(password)); err != nil {
		return fmt.Errorf("failed to save password to keyring: %w", err)
	}

	fmt.Println("Password saved to OS keyring.")
	return nil
}

// KeyringRemove deletes the stored password from the OS keyring
func KeyringRemove(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l, err := openLabKey()
	if err != nil {
		return err
	}
	defer l.Close()

	vaultID, err := l.VaultID()
	if err != nil {
		return err
	}

	if !keyring.HasPassword(vaultID) {
		fmt.Println("No password stored in the keyring.")
		return nil
	}
	if err := keyring.DeletePassword(vaultID); err != nil {
		return fmt.Errorf("failed to remove password from keyring: %w", err)
	}

	fmt.Println("Password removed from OS keyring.")
	return nil
}

// KeyringStatus reports whether a password is stored for this registry
func KeyringStatus(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l, err := openLabKey()
	if err != nil {
		return err
	}
	defer l.Close()

	vaultID, err := l.VaultID()
	if err != nil {
		return err
	}

	if keyring.HasPassword(vaultID) {
		fmt.Println("A password is stored in the OS keyring for this registry.")
	} else {
		fmt.Println("No password stored. Use 'labkey keyring save' to cache one.")
	}
	return nil
}
