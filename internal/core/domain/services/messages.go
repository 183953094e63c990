package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
)

// Subjects of customer notifications.
const (
	SubjectBooked        = "Parcel Booked Successfully"
	SubjectPickedUp      = "Parcel Picked Up"
	SubjectDelivered     = "Parcel Delivered Successfully"
	SubjectStatusUpdated = "Parcel Status Updated"
)

const mailLayout = `<div style="font-family: sans-serif; padding: 20px; border: 1px solid #eee;">
<h2 style="color: {{.Color}};">{{.Heading}}</h2>
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>Your parcel with tracking number <strong>{{.TrackingNumber}}</strong> {{.Body}}</p>
{{if .Detail}}<p><strong>{{.DetailLabel}}:</strong> {{.Detail}}</p>{{end}}
<hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;" />
<p style="font-size: 12px; color: #666;">Thank you for choosing ParcelTrack.</p>
</div>`

var mailTemplate = template.Must(template.New("mail").Parse(mailLayout))

type mailView struct {
	Color          string
	Heading        string
	Name           string
	TrackingNumber string
	Body           string
	DetailLabel    string
	Detail         string
}

func bookedMessage(customer *user.User, p *parcel.Parcel) intent.Message {
	tn := p.TrackingNumber().String()
	return intent.Message{
		Subject: SubjectBooked,
		Text:    fmt.Sprintf("Hello %s, your parcel %s is booked.", customer.Name(), tn),
		HTML: renderMail(mailView{
			Color:          "#2563eb",
			Heading:        "Parcel Booked Successfully!",
			Name:           customer.Name(),
			TrackingNumber: tn,
			Body:           "has been booked and is now being processed.",
			DetailLabel:    "Estimated Delivery",
			Detail:         p.EstimatedDeliveryDate().Format("Mon Jan 02 2006"),
		}),
	}
}

func pickedUpMessage(customer *user.User, p *parcel.Parcel) intent.Message {
	tn := p.TrackingNumber().String()
	return intent.Message{
		Subject: SubjectPickedUp,
		Text:    fmt.Sprintf("Your parcel %s has been picked up by our agent.", tn),
		HTML: renderMail(mailView{
			Color:          "#2563eb",
			Heading:        "Parcel Picked Up!",
			Name:           customer.Name(),
			TrackingNumber: tn,
			Body:           "has been picked up by our delivery agent and is on its way.",
		}),
	}
}

func deliveredMessage(customer *user.User, p *parcel.Parcel, at time.Time) intent.Message {
	tn := p.TrackingNumber().String()
	return intent.Message{
		Subject: SubjectDelivered,
		Text:    fmt.Sprintf("Your parcel %s has been delivered successfully.", tn),
		HTML: renderMail(mailView{
			Color:          "#16a34a",
			Heading:        "Parcel Delivered!",
			Name:           customer.Name(),
			TrackingNumber: tn,
			Body:           "has been successfully delivered.",
			DetailLabel:    "Delivery Date",
			Detail:         at.Format(time.RFC1123),
		}),
	}
}

func statusUpdatedMessage(p *parcel.Parcel) intent.Message {
	return intent.Message{
		Subject: SubjectStatusUpdated,
		Text:    fmt.Sprintf("Update: Your parcel (%s) status is now: %s.", p.TrackingNumber(), p.Status()),
	}
}

// renderMail returns an empty body on a rendering failure; recipients then
// get the plain text part only.
func renderMail(v mailView) string {
	var buf bytes.Buffer
	if err := mailTemplate.Execute(&buf, v); err != nil {
		return ""
	}
	return buf.String()
}
