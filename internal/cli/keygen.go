package cli

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/LeJamon/pixpressd/internal/core/types"
	"github.com/LeJamon/pixpressd/internal/crypto"
	"github.com/spf13/cobra"
)

var keygenFromName bool

var keygenCmd = &cobra.Command{
	Use:   "keygen [name]",
	Short: "Generate an account key pair",
	Long: `Keygen prints a seed, its public key and the account it controls.

The seed_hex value is what submit --seed-hex and the submit RPC method
expect. With --from-name the seed is derived from the name, giving the
same account every time; such keys are for local testing only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().BoolVar(&keygenFromName, "from-name", false, "derive the seed from the name")
}

// keyInfo is the printed form of a generated key.
type keyInfo struct {
	Name      string          `json:"name,omitempty"`
	SeedHex   string          `json:"seed_hex"`
	PublicKey string          `json:"public_key"`
	Account   types.AccountID `json:"account"`
}

func runKeygen(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	}
	info, err := generateKey(name, keygenFromName)
	if err != nil {
		return err
	}
	return printJSON(info)
}

func generateKey(name string, fromName bool) (*keyInfo, error) {
	var seed []byte
	if fromName {
		if name == "" {
			return nil, fmt.Errorf("--from-name needs a name")
		}
		sum := sha512.Sum512([]byte(name))
		seed = sum[:32]
	} else {
		var err error
		seed, err = crypto.RandomSeed()
		if err != nil {
			return nil, err
		}
	}

	key, err := crypto.NewKeyPairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return &keyInfo{
		Name:      name,
		SeedHex:   hex.EncodeToString(seed),
		PublicKey: key.PublicKeyHex(),
		Account:   types.AccountID(key.AccountID()),
	}, nil
}
