package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Les bienfaits du Head Spa japonais": "les-bienfaits-du-head-spa-japonais",
		"Nouveauté : l'huile d'argan !":      "nouveaute-l-huile-d-argan",
		"  Été 2025 -- Soins   ":             "ete-2025-soins",
		"Cœur & sérénité":                    "coeur-serenite",
		"½ ∞":                                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}
