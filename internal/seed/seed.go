// Package seed provides the initial catalog, demo accounts, and settings
// installed into an empty store on first start.
package seed

import (
	"strconv"
	"time"

	"github.com/example/room-agenda/internal/agenda"
	"github.com/example/room-agenda/internal/application"
	"github.com/example/room-agenda/internal/store"
)

// AdminSecretCode is the initial administrator secret. It lives in the
// settings document afterwards and can be changed there.
const AdminSecretCode = "TECO2025"

// Roles returns the initial role catalog. Only the administrator role
// carries privilege.
func Roles() []store.Role {
	return []store.Role{
		{ID: "1", Name: "Empleado"},
		{ID: "2", Name: "Supervisor"},
		{ID: "3", Name: "Coordinador"},
		{ID: "4", Name: "Jefe"},
		{ID: "5", Name: "Gerente"},
		{ID: "6", Name: "Administrador", Privileged: true},
	}
}

// Sectors returns the initial sector catalog.
func Sectors() []store.Sector {
	names := []string{
		"Operación Costa del Paraná",
		"Depósito",
		"Higiene & Seguridad",
		"Eventos French I",
		"Eventos French II",
		"Red French I",
		"Red French II",
		"Servicios Especiales",
		"Red Garay",
		"Eventos Garay",
		"Facilities & Servicios",
		"Capital Humano",
		"Comercial & Marketing",
	}
	sectors := make([]store.Sector, 0, len(names))
	for i, name := range names {
		sectors = append(sectors, store.Sector{ID: strconv.Itoa(i + 1), Name: name})
	}
	return sectors
}

// Users returns the demo accounts, each hashed from its listed secret.
func Users() ([]store.User, error) {
	accounts := []struct {
		user   store.User
		secret string
	}{
		{
			user: store.User{
				ID: "2", FirstName: "Esteban", LastName: "Garcia",
				Email: "egarcia@teco.com.ar", Phone: "(343)-4257585",
				Sector: "", Role: "Administrador",
			},
			secret: AdminSecretCode,
		},
		{
			user: store.User{
				ID: "3", FirstName: "Ana", LastName: "Martinez",
				Email: "amartinez@teco.com.ar", Phone: "(333)-3333333",
				Sector: "Capital Humano", Role: "Jefe",
			},
			secret: "user123",
		},
		{
			user: store.User{
				ID: "4", FirstName: "Esteban", LastName: "Garcia",
				Email: "egarciateco@gmail.com", Phone: "(444)-4444444",
				Sector: "Operación Costa del Paraná", Role: "Administrador",
			},
			secret: AdminSecretCode,
		},
		{
			user: store.User{
				ID: "5", FirstName: "Luciana", LastName: "Gomez",
				Email: "lgomez@teco.com.ar", Phone: "(555)-5555555",
				Sector: "", Role: "Administrador",
			},
			secret: "admin123",
		},
	}

	users := make([]store.User, 0, len(accounts))
	for _, account := range accounts {
		hash, err := application.HashCredential(account.secret, application.DefaultArgon2idParams)
		if err != nil {
			return nil, err
		}
		account.user.PasswordHash = hash
		users = append(users, account.user)
	}
	return users, nil
}

// Bookings returns demo bookings laid out across the week containing now.
func Bookings(now time.Time) []store.Booking {
	weekStart := agenda.WeekStart(now)
	day := func(offset int) string {
		return agenda.FormatDate(weekStart.AddDate(0, 0, offset))
	}
	return []store.Booking{
		{ID: "b1", UserID: "2", Date: day(0), StartTime: 10, Duration: 2},
		{ID: "b2", UserID: "3", Date: day(2), StartTime: 14, Duration: 1},
		{ID: "b3", UserID: "4", Date: day(4), StartTime: 9, Duration: 3},
	}
}

// Settings returns the initial application settings.
func Settings() store.AppSettings {
	return store.AppSettings{
		LogoURL:                "https://i.postimg.cc/44H65vZ5/LOGO-TELECOM-2.jpg",
		BackgroundImageURL:     "https://i.postimg.cc/L8138zQ5/oficina-moderna-paredes-verdes-pisos-madera-asientos-comodos-191095-99743.avif",
		HomeBackgroundImageURL: "https://images.unsplash.com/photo-1522071820081-009f0129c71c?q=80&w=2070&auto=format&fit=crop",
		AdminSecretCode:        AdminSecretCode,
		ShareableURL:           "https://telecom-reserva-app.netlify.app/",
	}
}
