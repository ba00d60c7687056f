// Package luabot provides a Discord support bot for the ScheduleLua modding
// framework. It answers questions with an AI assistant grounded in scraped
// documentation, replies to common questions automatically, manages server
// rules, and announces new releases published to the package registry.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., discordgo lives in discord/, genai
// in gemini/, the registry client in thunderstore/).
package luabot
