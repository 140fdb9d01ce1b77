package domain

type HelplineType string

const (
	HelplineCrisis      HelplineType = "crisis"
	HelplineCounseling  HelplineType = "counseling"
	HelplinePeer        HelplineType = "peer"
	HelplineYouth       HelplineType = "youth"
	HelplineSpecialized HelplineType = "specialized"
)

// Helpline is static reference data for a support line.
type Helpline struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Description  string       `json:"description" yaml:"description"`
	Phone        string       `json:"phone,omitempty" yaml:"phone"`
	WhatsApp     string       `json:"whatsapp,omitempty" yaml:"whatsapp"`
	Hours        string       `json:"hours,omitempty" yaml:"hours"`
	Availability string       `json:"availability" yaml:"availability"`
	Type         HelplineType `json:"type" yaml:"type"`
	Website      string       `json:"website,omitempty" yaml:"website"`
	Languages    []string     `json:"languages" yaml:"languages"`
	Free         bool         `json:"free" yaml:"free"`
}

type EmergencyNumbers struct {
	Ambulance string `json:"ambulance" yaml:"ambulance"`
	Police    string `json:"police" yaml:"police"`
	Fire      string `json:"fire" yaml:"fire"`
	General   string `json:"general" yaml:"general"`
}
