package pdf

import (
	"fmt"

	"github.com/unidoc/unipdf/v3/common/license"
)

// SetLicenseKey registers the UniDoc metered license key. unipdf refuses all
// output operations until a key is loaded, so this must run before the first
// Render call; main wires it at startup.
func SetLicenseKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("unidoc license key is empty")
	}
	if err := license.SetMeteredKey(apiKey); err != nil {
		return fmt.Errorf("set unidoc license key: %w", err)
	}
	return nil
}
