// assets/embed.go
//
// Embedded default character dataset. Lets the server run with no
// external files or network configured; CHARACTERS_FILE overrides it.

package assets

import _ "embed"

//go:embed characters.json
var charactersJSON []byte

// CharacterData returns the raw embedded dataset.
func CharacterData() []byte { return charactersJSON }
