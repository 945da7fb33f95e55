package ons

// DatasetSummary is the read-only listing/search view of a portal dataset.
type DatasetSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// Resource is one downloadable file attached to a dataset.
type Resource struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
	URL    string `json:"url"`
}

// DatasetDetail is the full metadata view returned by a detail lookup.
type DatasetDetail struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Resources []Resource `json:"resources,omitempty"`
}

// Summary collapses a detail record into its listing view.
func (d *DatasetDetail) Summary() DatasetSummary {
	return DatasetSummary{ID: d.ID, Name: d.Name, Title: d.Title}
}

// EARMeasurement is one parsed row of daily stored-energy data per subsystem.
// Values are in MW-month; Percent is the verified EAR over storable EAR.
type EARMeasurement struct {
	Instante      string  `json:"din_instante"`
	SubsystemID   string  `json:"id_subsistema"`
	SubsystemName string  `json:"nom_subsistema"`
	VerifiedMWMes float64 `json:"val_earverif_mwmes"`
	MaxMWMes      float64 `json:"val_eararmazenavel_mwmes"`
	Percent       float64 `json:"val_earverif_percentual"`
}

// LoadMeasurement is one parsed row of grid load per subsystem.
type LoadMeasurement struct {
	Instante      string  `json:"din_instante"`
	SubsystemID   string  `json:"id_subsistema"`
	SubsystemName string  `json:"nom_subsistema"`
	LoadMWMed     float64 `json:"val_cargaenergiamwmed"`
}

// CMOMeasurement is one parsed row of semi-hourly marginal operating cost,
// the public basis of the PLD settlement price, in BRL/MWh.
type CMOMeasurement struct {
	Instante      string  `json:"din_instante"`
	SubsystemID   string  `json:"id_subsistema"`
	SubsystemName string  `json:"nom_subsistema"`
	CostBRLMWh    float64 `json:"val_cmo"`
}

// subsystemRegions maps ONS subsystem identifiers (both short codes and
// long-form names) to dashboard region keys.
var subsystemRegions = map[string]string{
	"SE":       "southeast",
	"SUDESTE":  "southeast",
	"S":        "south",
	"SUL":      "south",
	"NE":       "northeast",
	"NORDESTE": "northeast",
	"N":        "north",
	"NORTE":    "north",
}

// RegionForSubsystem resolves a subsystem code or name to a region key.
func RegionForSubsystem(id string) (string, bool) {
	region, ok := subsystemRegions[normalizeSubsystem(id)]
	return region, ok
}
