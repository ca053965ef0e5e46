package services

import (
	"context"
	"fmt"
	"log/slog"

	"campusevents/internal/errmsg"
	"campusevents/internal/models"
	"campusevents/internal/session"
)

// SeederService fills a fresh Supabase project with an admin account and
// sample events, and probes whether the schema has been applied at all.
type SeederService struct {
	store      *session.Store
	eventsRepo models.EventsRepo
	schemaRepo models.SchemaRepo
	logger     *slog.Logger
}

func NewSeederService(store *session.Store, eventsRepo models.EventsRepo, schemaRepo models.SchemaRepo, logger *slog.Logger) *SeederService {
	return &SeederService{
		store:      store,
		eventsRepo: eventsRepo,
		schemaRepo: schemaRepo,
		logger:     logger,
	}
}

// CreateAdmin registers the admin account and signs it in. When the email is
// already registered it falls back to signing in with the given password, and
// the sign-in failure is translated into actionable guidance.
func (ss *SeederService) CreateAdmin(ctx context.Context, email, password string) (string, error) {
	err := ss.store.SignUp(ctx, email, password, map[string]any{
		"full_name": "Admin User",
		"role":      models.RoleOrganizer,
	})
	if err == nil {
		if signInErr := ss.store.SignIn(ctx, email, password); signInErr != nil {
			// Supabase withheld the session, which means confirmation is on.
			return "", fmt.Errorf("user created but needs email verification; check the inbox or disable \"Confirm Email\" in the Supabase dashboard")
		}
		return "admin user created and signed in", nil
	}

	msg := errmsg.Normalize(err)
	if !errmsg.IsAlreadyRegistered(msg) {
		return "", fmt.Errorf("sign-up failed: %s", msg)
	}

	ss.logger.Info("admin already exists, signing in instead", "email", email)
	if signInErr := ss.store.SignIn(ctx, email, password); signInErr != nil {
		loginMsg := errmsg.Normalize(signInErr)
		switch {
		case errmsg.IsInvalidCredentials(loginMsg):
			return "", fmt.Errorf("sign-in failed: wrong password or unconfirmed email; try a fresh admin email")
		case errmsg.IsEmailNotConfirmed(loginMsg):
			return "", fmt.Errorf("this email is registered but not verified; check the inbox or use another email")
		default:
			return "", fmt.Errorf("sign-in failed: %s", loginMsg)
		}
	}
	return "admin user already existed and is now signed in", nil
}

// Seed inserts the sample events with the signed-in user as host. It requires
// an authenticated session store.
func (ss *SeederService) Seed(ctx context.Context) (int, error) {
	snap := ss.store.Snapshot()
	if snap.State != session.StateAuthenticated {
		return 0, fmt.Errorf("sign in before seeding data")
	}

	for i := range sampleEvents {
		event := sampleEvents[i]
		event.HostID = snap.UserID
		if _, err := ss.eventsRepo.CreateEvent(ctx, &event, snap.AccessToken); err != nil {
			return i, fmt.Errorf("seeding stopped at event %d (%s): %s", i+1, event.Title, errmsg.Normalize(err))
		}
	}
	return len(sampleEvents), nil
}

// CheckSchema probes the expected tables. A missing table is reported with
// guidance to run the schema script rather than as a bare driver error.
func (ss *SeederService) CheckSchema(ctx context.Context) error {
	tables := []string{
		models.ProfilesTable,
		models.OrganizationsTable,
		models.EventsTable,
		models.RegistrationsTable,
	}
	for _, table := range tables {
		if err := ss.schemaRepo.CheckTable(ctx, table); err != nil {
			msg := errmsg.Normalize(err)
			if errmsg.IsMissingTable(msg) {
				return fmt.Errorf("table %q does not exist; run the schema setup script in the Supabase SQL editor first", table)
			}
			return fmt.Errorf("schema check failed for %q: %s", table, msg)
		}
	}
	return nil
}

// sampleEvents mirrors the demo catalogue the platform ships with.
var sampleEvents = []models.Event{
	{
		Title:       "Seminar Nasional Teknologi 5.0",
		Type:        "Teknologi",
		Date:        "2024-11-15",
		Time:        "09:00",
		Location:    "Auditorium Utama",
		Description: "Membahas masa depan AI dan dampaknya terhadap industri kreatif. Menghadirkan pembicara dari Google dan Tokopedia.",
		IsPublic:    true,
		Status:      models.StatusOpen,
		ImageURL:    "https://picsum.photos/seed/semnas/800/400",
	},
	{
		Title:       "Workshop React & Supabase",
		Type:        "Workshop",
		Date:        "2024-11-20",
		Time:        "13:00",
		Location:    "Lab Komputer 2",
		Description: "Belajar membuat aplikasi fullstack dalam 3 jam. Peserta diharapkan membawa laptop masing-masing.",
		IsPublic:    true,
		Status:      models.StatusUpcoming,
		ImageURL:    "https://picsum.photos/seed/workshopreact/800/400",
	},
	{
		Title:       "Pentas Seni Tahunan: Gema Nusantara",
		Type:        "Seni Budaya",
		Date:        "2024-12-01",
		Time:        "19:00",
		Location:    "Gedung Serbaguna",
		Description: "Penampilan teater, tari, dan musik dari berbagai UKM. Jangan lewatkan kemeriahannya!",
		IsPublic:    true,
		Status:      models.StatusUpcoming,
		ImageURL:    "https://picsum.photos/seed/pensi/800/400",
	},
	{
		Title:       "Lomba Futsal Antar Prodi",
		Type:        "Lomba",
		Date:        "2024-11-25",
		Time:        "08:00",
		Location:    "GOR Kampus",
		Description: "Turnamen futsal tahunan untuk memperebutkan piala Rektor. Segera daftarkan tim prodi kalian.",
		IsPublic:    true,
		Status:      models.StatusOpen,
		ImageURL:    "https://picsum.photos/seed/futsal/800/400",
	},
	{
		Title:       "Webinar Cyber Security Awareness",
		Type:        "Teknologi",
		Date:        "2024-11-18",
		Time:        "10:00",
		Location:    "Online (Zoom)",
		Description: "Pentingnya menjaga data pribadi di era digital. Tips dan trik aman berselancar di internet.",
		IsPublic:    true,
		Status:      models.StatusOpen,
		ImageURL:    "https://picsum.photos/seed/cyber/800/400",
	},
	{
		Title:       "Pelatihan Public Speaking Dasar",
		Type:        "Workshop",
		Date:        "2024-11-22",
		Time:        "15:00",
		Location:    "Ruang Kelas A1",
		Description: "Tingkatkan kepercayaan dirimu berbicara di depan umum. Cocok untuk mahasiswa baru.",
		IsPublic:    true,
		Status:      models.StatusOpen,
		ImageURL:    "https://picsum.photos/seed/publicspeak/800/400",
	},
	{
		Title:       "Turnamen Mobile Legends Campus Cup",
		Type:        "Lomba",
		Date:        "2024-11-30",
		Time:        "10:00",
		Location:    "Aula Kampus",
		Description: "Buktikan skill timmu di turnamen MLBB terbesar se-kampus. Total hadiah jutaan rupiah!",
		IsPublic:    true,
		Status:      models.StatusUpcoming,
		ImageURL:    "https://picsum.photos/seed/mlbb/800/400",
	},
	{
		Title:       "Bakti Sosial Raya 2024",
		Type:        "UKM",
		Date:        "2024-10-15",
		Time:        "07:00",
		Location:    "Desa Binaan",
		Description: "Kegiatan pengabdian masyarakat, tanam pohon, dan pembagian sembako.",
		IsPublic:    true,
		Status:      models.StatusClosed,
		ImageURL:    "https://picsum.photos/seed/baksos/800/400",
	},
	{
		Title:       "Pameran Fotografi: Wajah Kampus",
		Type:        "Seni Budaya",
		Date:        "2024-12-05",
		Time:        "09:00",
		Location:    "Lobby Utama",
		Description: "Pameran karya fotografi mahasiswa yang menangkap momen-momen indah di lingkungan kampus.",
		IsPublic:    true,
		Status:      models.StatusUpcoming,
		ImageURL:    "https://picsum.photos/seed/photoex/800/400",
	},
	{
		Title:       "English Club: Weekly Conversation",
		Type:        "UKM",
		Date:        "2024-11-16",
		Time:        "16:00",
		Location:    "Taman Diskusi",
		Description: "Join us for a fun afternoon of English conversation and games. Topic: \"Dream Jobs\".",
		IsPublic:    true,
		Status:      models.StatusOpen,
		ImageURL:    "https://picsum.photos/seed/englishclub/800/400",
	},
}
