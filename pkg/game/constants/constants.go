package constants

const (
	// WorldBound is the half-width of the square world. Player and star
	// coordinates are confined to [-WorldBound, WorldBound] on both axes.
	WorldBound = 5.0
	// PlayerSpeed is the distance a plane moves per movement command.
	PlayerSpeed = 0.1
	// PlayerStartingX is the x coordinate new planes spawn at.
	PlayerStartingX = 0.0
	// PlayerStartingY is the y coordinate new planes spawn at.
	PlayerStartingY = 0.0

	// StarTargetCount is the number of stars kept active in the field.
	StarTargetCount = 3
	// StarBaseValue is the score value of a regular star.
	StarBaseValue = 1
	// StarSpecialValue is the score value of a special star.
	StarSpecialValue = 5
	// StarSpecialChance is the probability of a spawned star being special.
	StarSpecialChance = 0.1
	// StarCollectionRadius is the distance below which a plane collects a star.
	StarCollectionRadius = 0.5
)
