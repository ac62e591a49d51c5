package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-sdk/config"
	"github.com/pilacorp/go-did-sdk/did"
	"github.com/pilacorp/go-did-sdk/didgen"
)

type generateOutput struct {
	DID                  string        `json:"did"`
	VerificationMethodID string        `json:"verificationMethodId"`
	Document             *did.Document `json:"document"`
	DocumentHash         string        `json:"documentHash"`
	PrivateKey           string        `json:"privateKey"`
}

func generateCmd() *cobra.Command {
	var domain, path, endpoint string

	cmd := &cobra.Command{
		Use:   "generate [did:key|did:web|did:peer]",
		Short: "Generate a key pair and its DID Document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := "did:key"
			if len(args) == 1 {
				method = args[0]
			}

			t, err := keyType()
			if err != nil {
				return err
			}

			result, err := didgen.NewDIDGenerator(
				didgen.WithKeyType(t),
				didgen.WithDomain(domain),
				didgen.WithPath(path),
				didgen.WithServiceEndpoint(endpoint),
				didgen.WithLogger(logger()),
			).GenerateDID(cmd.Context(), method)
			if err != nil {
				return err
			}
			defer result.Destroy()

			privateKey, err := exportKey(result.KeyPair.PrivateKey)
			if err != nil {
				return err
			}
			hash, err := result.Document.Hash()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(generateOutput{
				DID:                  result.DID,
				VerificationMethodID: result.VerificationMethodID,
				Document:             result.Document,
				DocumentHash:         hash,
				PrivateKey:           privateKey,
			})
		},
	}

	cmd.Flags().StringVar(&domain, "domain", config.WebDomain(), "did:web domain, optionally with port")
	cmd.Flags().StringVar(&path, "path", config.WebPath(), "did:web path")
	cmd.Flags().StringVar(&endpoint, "service-endpoint", config.ServiceEndpoint(), "did:peer DIDComm endpoint")
	return cmd
}
