// Package checksum derives change-detection tokens from generated
// configuration. Workloads carry the token in their pod template so that a
// change to any ConfigMap they depend on rolls them.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/deployport/pulumi-temporal-k8s/configmaps"
)

// ConfigMaps hashes the payloads of maps, in the given order.
func ConfigMaps(maps ...configmaps.ConfigMap) (string, error) {
	datas := make([]map[string]string, len(maps))
	for i, cm := range maps {
		datas[i] = cm.Data()
	}
	// encoding/json sorts map keys, which keeps the hash stable.
	b, err := json.Marshal(datas)
	if err != nil {
		return "", fmt.Errorf("failed to serialize config map data: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
