package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-sdk/didweb"
	"github.com/pilacorp/go-did-sdk/multicodec"
	"github.com/pilacorp/go-did-sdk/signer"
)

func signCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message and print the base64 signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := keyType()
			if err != nil {
				return err
			}

			secret, err := importKey(key)
			if err != nil {
				return err
			}
			defer secret.Destroy()

			sig, err := signer.Sign([]byte(args[0]), secret.Bytes(), t)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), sig)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "serialized private key")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <publicKeyMultibase> <message> <signature>",
		Short: "Verify a base64 signature against a multibase public key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, t, err := multicodec.Decode(args[0])
			if err != nil {
				return err
			}

			if !signer.Verify([]byte(args[1]), args[2], pub, t) {
				return errors.New("signature is invalid")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func webURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "web-url <did:web>",
		Short: "Print the HTTPS URL a did:web document is published at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := didweb.DocumentURL(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}
