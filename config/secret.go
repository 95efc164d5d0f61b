package config

type SlikeSecretData struct {
	Token    string `json:"token"`
	TokenDev string `json:"tokenDev"`
}
