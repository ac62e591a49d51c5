package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pilacorp/go-did-sdk/keycodec"
	"github.com/pilacorp/go-did-sdk/keys"
)

const formatSealed = "sealed"

func exportKey(secret *keys.Secret) (string, error) {
	if strings.EqualFold(formatName, formatSealed) {
		if passphrase == "" {
			return "", errors.New("passphrase required (-p)")
		}
		sealed, err := keycodec.Seal(secret, []byte(passphrase))
		if err != nil {
			return "", err
		}
		return string(sealed), nil
	}

	format, err := keycodec.ParseFormat(formatName)
	if err != nil {
		return "", err
	}

	return keycodec.Export(secret, format)
}

func importKey(serialized string) (*keys.Secret, error) {
	if strings.EqualFold(formatName, formatSealed) {
		if passphrase == "" {
			return nil, errors.New("passphrase required (-p)")
		}
		return keycodec.Open([]byte(serialized), []byte(passphrase))
	}

	format, err := keycodec.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	return keycodec.Import(serialized, format)
}

func keyType() (keys.KeyType, error) {
	t, err := keys.ParseKeyType(keyTypeName)
	if err != nil {
		return 0, fmt.Errorf("invalid --key-type: %w", err)
	}

	return t, nil
}
