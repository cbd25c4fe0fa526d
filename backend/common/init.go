package common

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// deriveRefreshSecret produces a refresh-signing key from the access-token
// secret when no dedicated one is configured. Deterministic, so sessions
// survive restarts, but distinct from the input.
func deriveRefreshSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret + ":refresh"))
	return hex.EncodeToString(sum[:])
}

var (
	Port          = flag.Int("port", 3000, "the listening port")
	PrintVersion  = flag.Bool("version", false, "print version and exit")
	PrintHelpFlag = flag.Bool("help", false, "print help and exit")
	LogDir        = flag.String("log-dir", "", "specify the log directory")
	EnableGzip    = flag.Bool("gzip", true, "enable gzip compression")
)

// StoragePath is the root directory of the local blob store.
// Maybe override by ENV_VAR.
var StoragePath = "storage"

// StorageDriver selects the blob store backend: "local" or "s3".
var StorageDriver = "local"

// S3Bucket is the bucket used when StorageDriver is "s3".
var S3Bucket = ""

func PrintHelp() {
	fmt.Println("FileBox - store files privately, share them with a code")
	fmt.Println("Usage: filebox [--port <port>] [--log-dir <log directory>] [--version] [--help]")
}

func init() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if os.Getenv("SQLITE_PATH") != "" {
		SQLitePath = os.Getenv("SQLITE_PATH")
	} else {
		// check if the directory exists
		if _, err := os.Stat(filepath.Dir(SQLitePath)); os.IsNotExist(err) {
			err = os.MkdirAll(filepath.Dir(SQLitePath), 0755)
			if err != nil {
				log.Fatal(err)
			}
		}
	}

	if os.Getenv("STORAGE_PATH") != "" {
		StoragePath = os.Getenv("STORAGE_PATH")
	}
	if os.Getenv("STORAGE_DRIVER") != "" {
		StorageDriver = os.Getenv("STORAGE_DRIVER")
	}
	if os.Getenv("S3_BUCKET") != "" {
		S3Bucket = os.Getenv("S3_BUCKET")
	}
	if os.Getenv("JWT_SECRET") != "" {
		JWTSecret = os.Getenv("JWT_SECRET")
	}
	if os.Getenv("JWT_REFRESH_SECRET") != "" {
		JWTRefreshSecret = os.Getenv("JWT_REFRESH_SECRET")
	} else if os.Getenv("JWT_SECRET") != "" {
		// Never share a key between the two token classes: an access token
		// must not verify under the refresh key.
		JWTRefreshSecret = deriveRefreshSecret(os.Getenv("JWT_SECRET"))
	}
	if os.Getenv("ADMIN_EMAIL") != "" {
		AdminEmail = os.Getenv("ADMIN_EMAIL")
	}
	if os.Getenv("ADMIN_PASSWORD") != "" {
		AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if os.Getenv("PORT") != "" {
		portInt, err := strconv.Atoi(os.Getenv("PORT"))
		if err != nil {
			log.Fatal(err)
		}
		Port = &portInt
	}

	if os.Getenv("ENABLE_GZIP") != "" {
		enableGzipBool, err := strconv.ParseBool(os.Getenv("ENABLE_GZIP"))
		if err != nil {
			log.Fatalf("invalid value for ENABLE_GZIP: %v", err)
		}
		*EnableGzip = enableGzipBool
	}

	if StorageDriver == "local" {
		if _, err := os.Stat(StoragePath); os.IsNotExist(err) {
			_ = os.MkdirAll(StoragePath, 0755)
		}
	}
}
