// services/packet_service.go
package services

import (
	"time"

	"snapstudio-backend/models"
)

// The packet is the stable, serializable payload handed to whatever renders
// the printable client document. Field order and list order are fixed so
// repeated builds with identical inputs produce identical packets.

type StudioProfile struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type ClientSummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	FamilyType string     `json:"familyType"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
}

type ChildMilestones struct {
	ChildName  string           `json:"childName"`
	BirthDate  time.Time        `json:"birthDate"`
	AgeInDays  int              `json:"ageInDays"`
	Milestones []MilestoneState `json:"milestones"`
}

type PacketRecommendation struct {
	PackageID       string   `json:"packageId"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	DurationMinutes int      `json:"durationMinutes"`
	Includes        []string `json:"includes"`
	Rationale       string   `json:"rationale"`
	ChildName       string   `json:"childName,omitempty"`
}

type ClientPacket struct {
	GeneratedAt     time.Time              `json:"generatedAt"`
	Studio          StudioProfile          `json:"studio"`
	Client          ClientSummary          `json:"client"`
	Children        []ChildMilestones      `json:"children"`
	Recommendations []PacketRecommendation `json:"recommendations"`
}

// PacketService assembles printable client packets from the milestone and
// recommendation engines.
type PacketService struct {
	recommendations *RecommendationService
	milestones      *MilestoneService
}

func NewPacketService(recommendations *RecommendationService, milestones *MilestoneService) *PacketService {
	return &PacketService{recommendations: recommendations, milestones: milestones}
}

// BuildPacket produces the packet for one client: studio header, client
// summary, per-child milestone states and the ranked recommendations. A
// recommendation's customization is the caller's concern; prices here are
// catalog prices.
func (s *PacketService) BuildPacket(studio *models.User, client *models.Client, asOf time.Time, limit int) (*ClientPacket, error) {
	packet := &ClientPacket{
		GeneratedAt: asOf,
		Studio: StudioProfile{
			Name:    studio.StudioName,
			Address: studio.StudioAddress,
			Phone:   studio.Phone,
			Email:   studio.Email,
		},
		Client: ClientSummary{
			ID:         client.ID.String(),
			Name:       client.Name,
			Email:      client.Email,
			Phone:      client.Phone,
			FamilyType: string(client.FamilyType),
			DueDate:    client.DueDate,
		},
	}

	for _, child := range client.Children {
		states, err := s.milestones.EvaluateMilestones(child.BirthDate, asOf)
		if err != nil {
			return nil, err
		}
		age, err := s.milestones.ComputeAge(child.BirthDate, asOf)
		if err != nil {
			return nil, err
		}
		packet.Children = append(packet.Children, ChildMilestones{
			ChildName:  child.Name,
			BirthDate:  child.BirthDate,
			AgeInDays:  age.Days,
			Milestones: states,
		})
	}

	recs, err := s.recommendations.Recommend(client, asOf, limit)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		packet.Recommendations = append(packet.Recommendations, PacketRecommendation{
			PackageID:       rec.PackageID.String(),
			Name:            rec.Package.Name,
			Description:     rec.Package.Description,
			Price:           rec.Package.BasePrice,
			DurationMinutes: rec.Package.DurationMinutes,
			Includes:        rec.Package.Includes,
			Rationale:       rec.Rationale,
			ChildName:       rec.ChildName,
		})
	}

	return packet, nil
}
