package configmaps

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

// PasswordKey holds the database password in the credentials Secret.
const PasswordKey = "password"

// Secret is a generated Secret and the name other objects refer to it by.
type Secret struct {
	Name   naming.Name
	Object *corev1.Secret
}

// DatabaseCredentials builds the Secret containers read the database password
// from.
func DatabaseCredentials(cfg *stackconfig.Configuration, p objectmeta.Placement) Secret {
	name := cfg.Name.Sub("db-credentials")
	return Secret{
		Name: name,
		Object: &corev1.Secret{
			TypeMeta: metav1.TypeMeta{
				APIVersion: "v1",
				Kind:       "Secret",
			},
			ObjectMeta: objectmeta.New(name, p, objectmeta.StandardLabels(cfg.Name, "credentials", "")),
			Type:       corev1.SecretTypeOpaque,
			StringData: map[string]string{
				PasswordKey: cfg.Persistence.Password,
			},
		},
	}
}
