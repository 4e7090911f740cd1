package service

import (
	"fmt"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"
)

// FallbackResponder 在 FAQ 未命中且 AI 不可用/失败时按意图返回预设回复。
// 纯查表实现，带默认分支，永远成功。
type FallbackResponder struct {
	hospital config.HospitalConfig
}

// NewFallbackResponder 创建一个新的 FallbackResponder 实例。
func NewFallbackResponder(hospital config.HospitalConfig) *FallbackResponder {
	return &FallbackResponder{hospital: hospital}
}

// Respond 返回给定意图的预设回复文本。
func (f *FallbackResponder) Respond(intent string) string {
	h := f.hospital
	switch intent {
	case model.IntentAppointmentBooking:
		return fmt.Sprintf("I'd be happy to help you book an appointment at %s. Please call us at %s or visit us at %s. Our opening hours are %s.",
			h.Name, h.Phone, h.Address, h.Hours)
	case model.IntentHospitalInfo:
		return fmt.Sprintf("%s is located at %s. Our opening hours are %s. You can reach us at %s.",
			h.Name, h.Address, h.Hours, h.Phone)
	case model.IntentPricingInquiry:
		return fmt.Sprintf("Pricing depends on the service your pet needs. For an accurate quote, please call %s at %s and our staff will be glad to assist.",
			h.Name, h.Phone)
	case model.IntentServiceInquiry:
		return fmt.Sprintf("%s offers consultations, vaccinations, surgery, dental care, grooming and boarding. Call %s for details about any service.",
			h.Name, h.Phone)
	case model.IntentPetCareInfo:
		return fmt.Sprintf("Every pet is different, so for health concerns we recommend a check-up with our veterinarians. Call %s to talk to our team at %s.",
			h.Phone, h.Name)
	case model.IntentEmergencyHelp:
		return fmt.Sprintf("If this is an emergency, please call our emergency line %s immediately or come directly to %s.",
			h.EmergencyPhone, h.Address)
	case model.IntentGreeting:
		return fmt.Sprintf("Hello! Welcome to %s. How can I help you and your pet today?", h.Name)
	default:
		return fmt.Sprintf("Thanks for reaching out to %s. I'm not sure I understood your question - could you rephrase it? You can also call us at %s and our staff will help you directly.",
			h.Name, h.Phone)
	}
}
