package cmd

import (
	"context"
	"fmt"

	"github.com/live-labs/labkey/internal/core"
)

// Init creates the labkey state registry in the current directory
func Init(ctx context.Context) error {
	l, err := openLabKey()
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.Init(ctx); err != nil {
		return err
	}

	vaultID, err := l.VaultID()
	if err != nil {
		return err
	}

	fmt.Printf("Initialized labkey registry in %s\n", core.RegistryFile)
	fmt.Printf("Vault ID: %s\n", vaultID)
	fmt.Println("\nNext steps:")
	fmt.Println("  labkey encrypt <file.json>     encrypt a configuration file")
	fmt.Println("  labkey keyring save            cache the password in the OS keyring")
	return nil
}
