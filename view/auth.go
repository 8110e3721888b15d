package view

const AccessTokenCookieName = "apihub-access-token"

type PublicKey struct {
	Value []byte `json:"value"`
}

type ApihubApiKeyView struct {
	Id        string   `json:"id"`
	PackageId string   `json:"packageId"`
	Name      string   `json:"name"`
	Revoked   bool     `json:"revoked"`
	Roles     []string `json:"roles"`
}
