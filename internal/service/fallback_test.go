package service

import (
	"testing"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"

	"github.com/stretchr/testify/assert"
)

func testHospital() config.HospitalConfig {
	return config.HospitalConfig{
		Name:           "City Pet Animal Hospital",
		Address:        "88 Riverside Avenue",
		Phone:          "555-0100",
		EmergencyPhone: "555-0199",
		Hours:          "Mon-Sun 8am-8pm",
	}
}

func TestFallbackResponder_AllIntentsHaveResponses(t *testing.T) {
	responder := NewFallbackResponder(testHospital())

	intents := []string{
		model.IntentAppointmentBooking,
		model.IntentHospitalInfo,
		model.IntentPricingInquiry,
		model.IntentServiceInquiry,
		model.IntentPetCareInfo,
		model.IntentEmergencyHelp,
		model.IntentGreeting,
		model.IntentGeneralQuestion,
		"something_unknown",
	}

	for _, intent := range intents {
		resp := responder.Respond(intent)
		assert.NotEmpty(t, resp, "intent %s", intent)
	}
}

func TestFallbackResponder_EmbedsHospitalDetails(t *testing.T) {
	responder := NewFallbackResponder(testHospital())

	resp := responder.Respond(model.IntentHospitalInfo)
	assert.Contains(t, resp, "City Pet Animal Hospital")
	assert.Contains(t, resp, "88 Riverside Avenue")
	assert.Contains(t, resp, "Mon-Sun 8am-8pm")
	assert.Contains(t, resp, "555-0100")

	resp = responder.Respond(model.IntentEmergencyHelp)
	assert.Contains(t, resp, "555-0199")
	assert.Contains(t, resp, "88 Riverside Avenue")
}

func TestFallbackResponder_UnknownIntentFallsThrough(t *testing.T) {
	responder := NewFallbackResponder(testHospital())

	assert.Equal(t, responder.Respond("no_such_intent"), responder.Respond(model.IntentGeneralQuestion))
}
