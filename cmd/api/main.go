// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aura-collective/aura-backend/internal/assessment"
	"github.com/aura-collective/aura-backend/internal/auth"
	"github.com/aura-collective/aura-backend/internal/common/database"
	"github.com/aura-collective/aura-backend/internal/config"
	"github.com/aura-collective/aura-backend/internal/intake"
	"github.com/aura-collective/aura-backend/internal/location"
	"github.com/aura-collective/aura-backend/internal/matching"
	"github.com/aura-collective/aura-backend/internal/political"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Aura Compatibility API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Printf("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to PostgreSQL
	log.Println("\n🗄️  Step 4: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 5. Connect to Redis (optional)
	log.Println("\n📮 Step 5: Connecting to Redis...")
	var redisClient *redis.Client

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Warning: Redis unavailable (%v), continuing without Redis", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 6. Run database migrations
	log.Println("\n🔨 Step 6: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Printf("❌ Migration error: %v", err)
		log.Fatal("Failed to run migrations")
	}
	log.Println("✅ Database migrations completed")

	// 7. Initialize Assessment system
	log.Println("\n🧩 Step 7: Initializing Assessment system...")

	assessmentRepo := assessment.NewPostgresRepository(db)
	assessmentService := assessment.NewService(assessmentRepo, cfg.QuestionBankPath, assessment.Config{
		BigFiveMinQuestions:     cfg.BigFiveMinQuestions,
		AttachmentMinQuestions:  cfg.AttachmentMinQuestions,
		ValuesMinQuestions:      cfg.ValuesMinQuestions,
		DealbreakerMinQuestions: cfg.DealbreakerMinQuestions,
		LifestyleMinQuestions:   cfg.LifestyleMinQuestions,
	})
	assessmentHandler := assessment.NewHandler(assessmentService)

	if cfg.AutoLoadQuestions {
		loaded, err := assessmentService.LoadQuestionBank(context.Background())
		if err != nil {
			log.Printf("⚠️  Warning: question bank load failed: %v", err)
		} else {
			log.Printf("   ✅ Question bank loaded (%d new questions)", loaded)
		}
	}
	log.Println("✅ Assessment system initialized")

	// 8. Initialize Values assessment system
	log.Println("\n🗳️  Step 8: Initializing Values assessment system...")

	politicalRepo := political.NewPostgresRepository(db)
	politicalService := political.NewService(politicalRepo)
	politicalHandler := political.NewHandler(politicalService)

	log.Println("✅ Values assessment system initialized")

	// 9. Initialize Intake system
	log.Println("\n📋 Step 9: Initializing Intake system...")

	intakeRepo := intake.NewPostgresRepository(db)
	intakeService := intake.NewService(intakeRepo)
	intakeHandler := intake.NewHandler(intakeService)

	log.Println("✅ Intake system initialized")

	// 10. Initialize Location system
	log.Println("\n📍 Step 10: Initializing Location system...")

	locationRepo := location.NewPostgresRepository(db)
	locationService := location.NewService(locationRepo, cfg.DefaultMaxTravelMinutes)
	locationHandler := location.NewHandler(locationService)

	log.Println("✅ Location system initialized")

	// 11. Initialize Matching system
	log.Println("\n💘 Step 11: Initializing Matching system...")

	matchingRepo := matching.NewPostgresRepository(db)

	var aiClient matching.AIClient
	if cfg.AIServiceURL != "" {
		aiClient = matching.NewAIClient(cfg.AIServiceURL, cfg.AIServiceTimeout)
		log.Printf("   ✅ Scoring service configured at %s", cfg.AIServiceURL)
	} else {
		log.Println("   ⚠️  Scoring service not configured, local scoring only")
	}

	matchingService := matching.NewService(
		matchingRepo,
		redisClient,
		aiClient,
		assessmentService,
		intakeService,
		politicalService,
		locationService,
		cfg,
	)
	matchingHandler := matching.NewHandler(matchingService)

	log.Println("✅ Matching system initialized")

	// 12. Setup routes
	log.Println("\n🛣️  Step 12: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	assessment.RegisterRoutes(router, assessmentHandler, authMiddleware)
	log.Println("   ✅ Assessment routes registered")

	political.RegisterRoutes(router, politicalHandler, authMiddleware)
	log.Println("   ✅ Values assessment routes registered")

	intake.RegisterRoutes(router, intakeHandler, authMiddleware)
	log.Println("   ✅ Intake routes registered")

	location.RegisterRoutes(router, locationHandler, authMiddleware)
	log.Println("   ✅ Location routes registered")

	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	log.Println("   ✅ Matching routes registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 13. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

var startTime = time.Now()

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
	log.Println("   - Creating/updating tables...")

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			uuid UUID UNIQUE NOT NULL DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE,
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255),
			display_name VARCHAR(100),
			gender VARCHAR(30),
			age INTEGER,
			interests TEXT,
			is_verified BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS assessment_questions (
			id SERIAL PRIMARY KEY,
			external_id VARCHAR(100) UNIQUE NOT NULL,
			text TEXT NOT NULL,
			category VARCHAR(30) NOT NULL,
			scale VARCHAR(30) NOT NULL,
			subcategory VARCHAR(100),
			domain VARCHAR(10),
			keyed VARCHAR(10),
			dimension VARCHAR(50),
			severity VARCHAR(20),
			red_flag_value INTEGER,
			flag_name VARCHAR(50),
			display_order INTEGER DEFAULT 0,
			active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS assessment_responses (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			question_id INTEGER NOT NULL REFERENCES assessment_questions(id) ON DELETE CASCADE,
			category VARCHAR(30) NOT NULL,
			numeric_response INTEGER,
			text_response TEXT,
			importance VARCHAR(20),
			answered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_user_question UNIQUE(user_id, question_id)
		)`,

		`CREATE TABLE IF NOT EXISTS assessment_profiles (
			id SERIAL PRIMARY KEY,
			user_id INTEGER UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			openness_score DOUBLE PRECISION,
			conscientiousness_score DOUBLE PRECISION,
			extraversion_score DOUBLE PRECISION,
			agreeableness_score DOUBLE PRECISION,
			neuroticism_score DOUBLE PRECISION,
			emotional_stability_score DOUBLE PRECISION,
			attachment_anxiety_score DOUBLE PRECISION,
			attachment_avoidance_score DOUBLE PRECISION,
			attachment_style VARCHAR(30),
			values_progressive_score DOUBLE PRECISION,
			values_egalitarian_score DOUBLE PRECISION,
			lifestyle_social_score DOUBLE PRECISION,
			lifestyle_health_score DOUBLE PRECISION,
			lifestyle_worklife_score DOUBLE PRECISION,
			lifestyle_finance_score DOUBLE PRECISION,
			dealbreaker_flags BIGINT DEFAULT 0,
			big_five_answered INTEGER DEFAULT 0,
			attachment_answered INTEGER DEFAULT 0,
			values_answered INTEGER DEFAULT 0,
			dealbreaker_answered INTEGER DEFAULT 0,
			lifestyle_answered INTEGER DEFAULT 0,
			big_five_complete BOOLEAN DEFAULT FALSE,
			attachment_complete BOOLEAN DEFAULT FALSE,
			values_complete BOOLEAN DEFAULT FALSE,
			dealbreaker_complete BOOLEAN DEFAULT FALSE,
			lifestyle_complete BOOLEAN DEFAULT FALSE,
			profile_complete BOOLEAN DEFAULT FALSE,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS political_assessments (
			id SERIAL PRIMARY KEY,
			user_id INTEGER UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			orientation VARCHAR(30),
			wealth_redistribution_view INTEGER,
			worker_ownership_view INTEGER,
			universal_services_view INTEGER,
			housing_rights_view INTEGER,
			wealth_concentration_view INTEGER,
			meritocracy_belief_view INTEGER,
			economic_values_score DOUBLE PRECISION,
			gate_status VARCHAR(30) NOT NULL DEFAULT 'PENDING_ASSESSMENT',
			completed_at TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS intake_progress (
			id SERIAL PRIMARY KEY,
			user_id INTEGER UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			questions_complete BOOLEAN DEFAULT FALSE,
			video_intro_complete BOOLEAN DEFAULT FALSE,
			photos_complete BOOLEAN DEFAULT FALSE,
			intake_complete BOOLEAN DEFAULT FALSE,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS user_location_areas (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			neighborhood VARCHAR(100),
			city VARCHAR(100) NOT NULL,
			state VARCHAR(50) NOT NULL,
			display_order INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS area_centroids (
			id SERIAL PRIMARY KEY,
			area_key VARCHAR(200) UNIQUE NOT NULL,
			neighborhood VARCHAR(100),
			city VARCHAR(100) NOT NULL,
			state VARCHAR(50) NOT NULL,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION
		)`,

		`CREATE TABLE IF NOT EXISTS user_location_preferences (
			id SERIAL PRIMARY KEY,
			user_id INTEGER UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			max_travel_minutes INTEGER NOT NULL DEFAULT 60,
			require_area_overlap BOOLEAN DEFAULT FALSE,
			show_exceptional_matches BOOLEAN DEFAULT TRUE,
			exceptional_match_threshold DOUBLE PRECISION DEFAULT 0.90
		)`,

		`CREATE TABLE IF NOT EXISTS pair_scores (
			id SERIAL PRIMARY KEY,
			user_a_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user_b_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			personality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			values_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			lifestyle_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			attraction_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			circumstantial_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			growth_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			overall_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			enemy_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			explanation_json TEXT,
			calculated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_pair UNIQUE(user_a_id, user_b_id)
		)`,

		`CREATE TABLE IF NOT EXISTS daily_match_quotas (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			match_date DATE NOT NULL,
			matches_shown INTEGER NOT NULL DEFAULT 0,
			match_limit INTEGER NOT NULL DEFAULT 5,
			shown_user_ids TEXT,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT unique_user_day UNIQUE(user_id, match_date)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_questions_category ON assessment_questions(category)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_user ON assessment_responses(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_user_category ON assessment_responses(user_id, category)`,
		`CREATE INDEX IF NOT EXISTS idx_areas_user ON user_location_areas(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_areas_city_state ON user_location_areas(city, state)`,
		`CREATE INDEX IF NOT EXISTS idx_centroids_city_state ON area_centroids(city, state)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_scores_user_a ON pair_scores(user_a_id, overall_score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_scores_user_b ON pair_scores(user_b_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quotas_user_date ON daily_match_quotas(user_id, match_date)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
			log.Printf("   - Migration %d skipped (already exists)", i+1)
		}
	}

	log.Println("   ✅ All migrations executed successfully")
	return nil
}
