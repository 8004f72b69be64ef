package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnalyzeConfig returns the AI configuration for tactic analysis with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.AnalyzeTactic == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeTactic = c.AI.CustomPrompts.SystemPrompts.AnalyzeTactic
	}
	if config.CustomPrompts.UserPrompts.AnalyzeTactic == "" {
		config.CustomPrompts.UserPrompts.AnalyzeTactic = c.AI.CustomPrompts.UserPrompts.AnalyzeTactic
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.AnalyzeTacticFile == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeTacticFile = c.AI.CustomPrompts.SystemPrompts.AnalyzeTacticFile
	}
	if config.CustomPrompts.UserPrompts.AnalyzeTacticFile == "" {
		config.CustomPrompts.UserPrompts.AnalyzeTacticFile = c.AI.CustomPrompts.UserPrompts.AnalyzeTacticFile
	}

	return config
}

// GetEnhanceConfig returns the AI configuration for response enhancement with fallback to global config
func (c *Config) GetEnhanceConfig() OperationAIConfig {
	config := c.AI.Enhance

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.EnhanceResponse == "" {
		config.CustomPrompts.SystemPrompts.EnhanceResponse = c.AI.CustomPrompts.SystemPrompts.EnhanceResponse
	}
	if config.CustomPrompts.UserPrompts.EnhanceResponse == "" {
		config.CustomPrompts.UserPrompts.EnhanceResponse = c.AI.CustomPrompts.UserPrompts.EnhanceResponse
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.EnhanceResponseFile == "" {
		config.CustomPrompts.SystemPrompts.EnhanceResponseFile = c.AI.CustomPrompts.SystemPrompts.EnhanceResponseFile
	}
	if config.CustomPrompts.UserPrompts.EnhanceResponseFile == "" {
		config.CustomPrompts.UserPrompts.EnhanceResponseFile = c.AI.CustomPrompts.UserPrompts.EnhanceResponseFile
	}

	return config
}

// GetExtractConfig returns the AI configuration for profile extraction with fallback to global config
func (c *Config) GetExtractConfig() OperationAIConfig {
	config := c.AI.Extract

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.ExtractProfile == "" {
		config.CustomPrompts.SystemPrompts.ExtractProfile = c.AI.CustomPrompts.SystemPrompts.ExtractProfile
	}
	if config.CustomPrompts.UserPrompts.ExtractProfile == "" {
		config.CustomPrompts.UserPrompts.ExtractProfile = c.AI.CustomPrompts.UserPrompts.ExtractProfile
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.ExtractProfileFile == "" {
		config.CustomPrompts.SystemPrompts.ExtractProfileFile = c.AI.CustomPrompts.SystemPrompts.ExtractProfileFile
	}
	if config.CustomPrompts.UserPrompts.ExtractProfileFile == "" {
		config.CustomPrompts.UserPrompts.ExtractProfileFile = c.AI.CustomPrompts.UserPrompts.ExtractProfileFile
	}

	return config
}

// GetLoadedAnalyzePrompts returns a copy of the loaded prompts for the analyze operation
func (c *Config) GetLoadedAnalyzePrompts() OperationLoadedPrompts {
	return loadedPrompts.Analyze
}

// GetLoadedEnhancePrompts returns a copy of the loaded prompts for the enhance operation
func (c *Config) GetLoadedEnhancePrompts() OperationLoadedPrompts {
	return loadedPrompts.Enhance
}

// GetLoadedExtractPrompts returns a copy of the loaded prompts for the extract operation
func (c *Config) GetLoadedExtractPrompts() OperationLoadedPrompts {
	return loadedPrompts.Extract
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
