package main

import (
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// vapidKeys generates an elliptic-curve (P-256) VAPID key pair and prints
// both halves in URL-safe unpadded base64 for manual copy into
// configuration (CLASSLY_WEB_PUSH_VAPID_*).
func (cli *commandLine) vapidKeys() error {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return fmt.Errorf("generating VAPID keys: %w", err)
	}

	fmt.Println("VAPID public key: ", publicKey)
	fmt.Println("VAPID private key:", privateKey)
	return nil
}
