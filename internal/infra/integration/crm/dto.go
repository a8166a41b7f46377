package crm

// Providers suportados pelo serviço de conexão
const (
	ProviderSalesforce = "salesforce"
	ProviderHubspot    = "hubspot"
	ProviderPipedrive  = "pipedrive"
)

// AccessToken é a credencial resolvida para uma (empresa, provider).
// InstanceURL só é relevante para providers que isolam tenants por URL
// (Salesforce).
type AccessToken struct {
	Token       string `json:"access_token"`
	InstanceURL string `json:"instance_url,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
	Error       string `json:"error,omitempty"`
}
