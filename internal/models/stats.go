package models

// CountBy is one bucket of a grouped count.
type CountBy struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Statistics is the dashboard summary.
type Statistics struct {
	TotalOffers        int       `json:"totalOffers"`
	TotalApplications  int       `json:"totalApplications"`
	TotalTalents       int       `json:"totalTalents"`
	TotalManagers      int       `json:"totalManagers"`
	PendingApprovals   int       `json:"pendingApprovals"`
	TopSectors         []CountBy `json:"top5Sectors"`
	OffersByModality   []CountBy `json:"offersByModality"`
	OffersByStudyLevel []CountBy `json:"offersByStudyLevel"`
	OffersByRegion     []CountBy `json:"offersByRegion"`
}
