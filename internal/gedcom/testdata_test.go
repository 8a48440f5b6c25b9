package gedcom

const sampleTree = "0 HEAD\n1 GEDC\n2 VERS 7.0\n" +
	"0 @I1@ INDI\n1 NAME John /Smith/\n1 FAMS @F1@\n" +
	"0 @I2@ INDI\n1 NAME Jane /Doe/\n1 FAMS @F1@\n" +
	"0 @F1@ FAM\n1 HUSB @I1@\n1 WIFE @I2@\n" +
	"0 @S1@ SOUR\n1 TITL Source One\n" +
	"0 @N1@ SNOTE Shared note 1\n" +
	"0 TRLR"
