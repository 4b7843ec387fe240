// Package domain holds the entity types shared across the application:
// the identifier wrappers that keep Discord snowflakes and storage primary
// keys from being confused for one another, and the read models mirroring
// the platform and game entities the bot manages.
package domain
