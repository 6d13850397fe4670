package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-agenda/internal/agenda"
	"github.com/example/room-agenda/internal/application"
	"github.com/example/room-agenda/internal/config"
	httptransport "github.com/example/room-agenda/internal/http"
	"github.com/example/room-agenda/internal/notify"
	"github.com/example/room-agenda/internal/seed"
	"github.com/example/room-agenda/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close store", "error", cerr)
		}
	}()

	if err := st.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	seedUsers, err := seed.Users()
	if err != nil {
		logger.Error("failed to prepare seed users", "error", err)
		os.Exit(1)
	}

	now := time.Now
	idGenerator := uuid.NewString

	cols := &collections{
		session:  store.NewCollection(st, store.KeyCurrentSession, func() *store.User { return nil }),
		users:    store.NewCollection(st, store.KeyUsers, func() []store.User { return seedUsers }),
		sectors:  store.NewCollection(st, store.KeySectors, seed.Sectors),
		roles:    store.NewCollection(st, store.KeyRoles, seed.Roles),
		bookings: store.NewCollection(st, store.KeyBookings, func() []store.Booking { return seed.Bookings(now()) }),
		settings: store.NewCollection(st, store.KeySettings, seed.Settings),
	}

	userStore := newUserStoreAdapter(cols)
	bookingStore := newBookingStoreAdapter(cols)
	sectorStore := newSectorStoreAdapter(cols)
	roleStore := newRoleStoreAdapter(cols)
	settingsStore := newSettingsStoreAdapter(cols)
	sessionStore := newSessionStoreAdapter(cols)
	cascadeStore := newCascadeStoreAdapter(st, cols)

	mailer := notify.NewEmailJSClient(
		cfg.EmailJS.BaseURL,
		cfg.EmailJS.ServiceID,
		cfg.EmailJS.TemplateID,
		cfg.EmailJS.PublicKey,
		&http.Client{Timeout: cfg.NotifyTimeout},
	)
	dispatcher := notify.NewDispatcher(mailer, cfg.NotifyTimeout, logger)

	bookingService := application.NewBookingServiceWithLogger(bookingStore, userStore, dispatcher, agenda.DefaultGrid, idGenerator, now, logger)
	userService := application.NewUserServiceWithLogger(userStore, bookingStore, roleStore, settingsStore, cascadeStore, idGenerator, now, logger)
	directoryService := application.NewDirectoryServiceWithLogger(sectorStore, roleStore, idGenerator, logger)
	settingsService := application.NewSettingsServiceWithLogger(settingsStore, logger)
	authService := application.NewAuthServiceWithLogger(userStore, sessionStore, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Users:     httptransport.NewUserHandler(userService, logger),
		Bookings:  httptransport.NewBookingHandler(bookingService, now, logger),
		Directory: httptransport.NewDirectoryHandler(directoryService, logger),
		Settings:  httptransport.NewSettingsHandler(settingsService, logger),
	})

	protected := httptransport.RequireSession(authService, httptransport.PublicRoutes(), logger)(router)
	handler := httptransport.RequestLogger(logger)(protected)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("agenda API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// collections groups the typed document views over the shared store.
type collections struct {
	session  *store.Collection[*store.User]
	users    *store.Collection[[]store.User]
	sectors  *store.Collection[[]store.Sector]
	roles    *store.Collection[[]store.Role]
	bookings *store.Collection[[]store.Booking]
	settings *store.Collection[store.AppSettings]
}

// privilegedRoles returns the set of role names carrying privilege.
func (c *collections) privilegedRoles(ctx context.Context) (map[string]bool, error) {
	roles, err := c.roles.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(roles))
	for _, role := range roles {
		if role.Privileged {
			out[role.Name] = true
		}
	}
	return out, nil
}

type userStoreAdapter struct {
	cols *collections
}

func newUserStoreAdapter(cols *collections) *userStoreAdapter {
	return &userStoreAdapter{cols: cols}
}

func (a *userStoreAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	records, err := a.cols.users.Get(ctx)
	if err != nil {
		return nil, err
	}
	privileged, err := a.cols.privilegedRoles(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]application.User, 0, len(records))
	for _, record := range records {
		users = append(users, toApplicationUser(record, privileged))
	}
	return users, nil
}

func (a *userStoreAdapter) SaveUsers(ctx context.Context, users []application.User) error {
	records := make([]store.User, 0, len(users))
	for _, user := range users {
		records = append(records, toStoreUser(user))
	}
	return a.cols.users.Put(ctx, records)
}

type bookingStoreAdapter struct {
	cols *collections
}

func newBookingStoreAdapter(cols *collections) *bookingStoreAdapter {
	return &bookingStoreAdapter{cols: cols}
}

func (a *bookingStoreAdapter) ListBookings(ctx context.Context) ([]application.Booking, error) {
	records, err := a.cols.bookings.Get(ctx)
	if err != nil {
		return nil, err
	}
	bookings := make([]application.Booking, 0, len(records))
	for _, record := range records {
		bookings = append(bookings, application.Booking(record))
	}
	return bookings, nil
}

func (a *bookingStoreAdapter) SaveBookings(ctx context.Context, bookings []application.Booking) error {
	records := make([]store.Booking, 0, len(bookings))
	for _, booking := range bookings {
		records = append(records, store.Booking(booking))
	}
	return a.cols.bookings.Put(ctx, records)
}

type sectorStoreAdapter struct {
	cols *collections
}

func newSectorStoreAdapter(cols *collections) *sectorStoreAdapter {
	return &sectorStoreAdapter{cols: cols}
}

func (a *sectorStoreAdapter) ListSectors(ctx context.Context) ([]application.Sector, error) {
	records, err := a.cols.sectors.Get(ctx)
	if err != nil {
		return nil, err
	}
	sectors := make([]application.Sector, 0, len(records))
	for _, record := range records {
		sectors = append(sectors, application.Sector(record))
	}
	return sectors, nil
}

func (a *sectorStoreAdapter) SaveSectors(ctx context.Context, sectors []application.Sector) error {
	records := make([]store.Sector, 0, len(sectors))
	for _, sector := range sectors {
		records = append(records, store.Sector(sector))
	}
	return a.cols.sectors.Put(ctx, records)
}

type roleStoreAdapter struct {
	cols *collections
}

func newRoleStoreAdapter(cols *collections) *roleStoreAdapter {
	return &roleStoreAdapter{cols: cols}
}

func (a *roleStoreAdapter) ListRoles(ctx context.Context) ([]application.Role, error) {
	records, err := a.cols.roles.Get(ctx)
	if err != nil {
		return nil, err
	}
	roles := make([]application.Role, 0, len(records))
	for _, record := range records {
		roles = append(roles, application.Role(record))
	}
	return roles, nil
}

func (a *roleStoreAdapter) SaveRoles(ctx context.Context, roles []application.Role) error {
	records := make([]store.Role, 0, len(roles))
	for _, role := range roles {
		records = append(records, store.Role(role))
	}
	return a.cols.roles.Put(ctx, records)
}

type settingsStoreAdapter struct {
	cols *collections
}

func newSettingsStoreAdapter(cols *collections) *settingsStoreAdapter {
	return &settingsStoreAdapter{cols: cols}
}

func (a *settingsStoreAdapter) Settings(ctx context.Context) (application.AppSettings, error) {
	record, err := a.cols.settings.Get(ctx)
	if err != nil {
		return application.AppSettings{}, err
	}
	return application.AppSettings(record), nil
}

func (a *settingsStoreAdapter) SaveSettings(ctx context.Context, settings application.AppSettings) error {
	return a.cols.settings.Put(ctx, store.AppSettings(settings))
}

type sessionStoreAdapter struct {
	cols *collections
}

func newSessionStoreAdapter(cols *collections) *sessionStoreAdapter {
	return &sessionStoreAdapter{cols: cols}
}

func (a *sessionStoreAdapter) CurrentUser(ctx context.Context) (application.User, bool, error) {
	record, err := a.cols.session.Get(ctx)
	if err != nil {
		return application.User{}, false, err
	}
	if record == nil {
		return application.User{}, false, nil
	}
	privileged, err := a.cols.privilegedRoles(ctx)
	if err != nil {
		return application.User{}, false, err
	}
	return toApplicationUser(*record, privileged), true, nil
}

func (a *sessionStoreAdapter) SetCurrentUser(ctx context.Context, user *application.User) error {
	if user == nil {
		return a.cols.session.Put(ctx, nil)
	}
	record := toStoreUser(*user)
	return a.cols.session.Put(ctx, &record)
}

type cascadeStoreAdapter struct {
	st   *store.Store
	cols *collections
}

func newCascadeStoreAdapter(st *store.Store, cols *collections) *cascadeStoreAdapter {
	return &cascadeStoreAdapter{st: st, cols: cols}
}

func (a *cascadeStoreAdapter) SaveUsersAndBookings(ctx context.Context, users []application.User, bookings []application.Booking) error {
	userRecords := make([]store.User, 0, len(users))
	for _, user := range users {
		userRecords = append(userRecords, toStoreUser(user))
	}
	bookingRecords := make([]store.Booking, 0, len(bookings))
	for _, booking := range bookings {
		bookingRecords = append(bookingRecords, store.Booking(booking))
	}

	if err := a.st.PutAll(ctx, []store.Entry{
		{Key: store.KeyUsers, Value: userRecords},
		{Key: store.KeyBookings, Value: bookingRecords},
	}); err != nil {
		return err
	}

	a.cols.users.Prime(userRecords)
	a.cols.bookings.Prime(bookingRecords)
	return nil
}

func toApplicationUser(record store.User, privilegedRoles map[string]bool) application.User {
	return application.User{
		ID:              record.ID,
		FirstName:       record.FirstName,
		LastName:        record.LastName,
		Email:           record.Email,
		Phone:           record.Phone,
		Sector:          record.Sector,
		Role:            record.Role,
		Privileged:      privilegedRoles[record.Role],
		Credential:      record.PasswordHash,
		PriorCredential: record.PriorPasswordHash,
	}
}

func toStoreUser(user application.User) store.User {
	return store.User{
		ID:                user.ID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		Phone:             user.Phone,
		Sector:            user.Sector,
		Role:              user.Role,
		PasswordHash:      user.Credential,
		PriorPasswordHash: user.PriorCredential,
	}
}
